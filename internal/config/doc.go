// Package config loads, normalizes, and validates cozycast configuration.
//
// Configuration is TOML with one section per subsystem. Credentials resolve
// from the environment when present so scheduler-managed deployments can keep
// secrets out of the file.
package config
