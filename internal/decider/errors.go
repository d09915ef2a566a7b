package decider

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes decider errors.
type ErrorCode string

const (
	// ErrCodeInvalidConfig indicates a configuration rejected before any
	// record was processed.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// ErrCodeDerivationFailed indicates a parameter extension aborted a run.
	ErrCodeDerivationFailed ErrorCode = "DERIVATION_FAILED"
)

// ConfigError is returned by New for an unusable Config or Option set.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s=%q: %v", ErrCodeInvalidConfig, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrCodeInvalidConfig, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DerivationError reports a run whose parameter derivation was aborted.
type DerivationError struct {
	Run      string
	GroupKey string
	Err      error
}

// Error implements the error interface.
func (e *DerivationError) Error() string {
	return fmt.Sprintf("%s: run %s (group=%s): %v", ErrCodeDerivationFailed, e.Run, e.GroupKey, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// IsConfigError returns true if the error is a configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsDerivationError returns true if err is, wraps, or joins a
// DerivationError.
func IsDerivationError(err error) bool {
	var de *DerivationError
	return errors.As(err, &de)
}
