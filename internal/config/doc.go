// Package config loads, normalizes, and validates clipforge's TOML
// configuration. Path fields are expanded to absolute paths at load time so
// downstream packages never see "~" or relative values.
package config
