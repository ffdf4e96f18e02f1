// Package search implements nearby-stop queries over a transfer-analyzer
// graph, either by straight-line distance or by routing through the street
// network.
package search
