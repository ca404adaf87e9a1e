// Package config loads and validates the streakd configuration.
//
// Configuration is a small YAML file with environment variable expansion.
// After defaults are applied, the result is validated against an embedded
// CUE schema, so typos in enum fields (logging level, format) fail at
// startup with a schema error instead of surfacing later as odd behavior.
package config
