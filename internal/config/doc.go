// Package config loads and validates application settings from a YAML
// file and environment variables, exposing them as typed structs so the
// rest of the application never touches raw configuration sources.
package config
