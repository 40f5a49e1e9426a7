// Package config handles configuration loading for reqline.
//
// It provides functionality for:
//   - Loading configuration from .reqline.yaml, reqline.yaml or .reqlinerc
//   - Default configuration values
//   - Merging file values with command line overrides
package config
