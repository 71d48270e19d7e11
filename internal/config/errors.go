package config

import (
	"errors"
	"fmt"
)

// Common configuration errors
var (
	// ErrConfigInvalid is returned when the configuration is invalid
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigParseFailed is returned when decoding the configuration fails
	ErrConfigParseFailed = errors.New("failed to parse configuration")
)

// ValidationError represents an error in configuration validation
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: field %q with value %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrConfigInvalid).
func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}
