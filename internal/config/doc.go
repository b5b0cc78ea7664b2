// Package config defines and validates the compatibility run configuration.
//
// A Config is populated from CLI flags (and optionally a YAML profile file),
// validated exactly once via Validate, and then treated as immutable for the
// lifetime of the run. Validation failures are reported through package-level
// sentinel errors so callers can use errors.Is for programmatic handling.
package config
