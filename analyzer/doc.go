// Package analyzer implements the transfer quality analysis pass.
//
// For every transit stop it compares straight-line distances to nearby stops
// against distances obtained by routing through the street network, and
// reports stop pairs whose street route is disproportionately long as well
// as pairs that could not be routed at all. The resulting lists are ranked
// and are typically used to improve the quality of the underlying street
// data for transfer purposes.
package analyzer
