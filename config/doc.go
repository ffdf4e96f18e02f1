// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// The TRANSFER_ANALYZER_CONFIG environment variable overrides the search path.
package config
