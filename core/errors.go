package core

import (
	"errors"

	"github.com/opd-ai/argon2/limits"
)

var (
	// ErrAllocation reports that the memory matrix could not be allocated.
	// No partial computation is retried.
	ErrAllocation = errors.New("memory allocation error")

	// ErrAborted reports that the caller's context ended the derivation
	// between two slices. The partial matrix has been wiped.
	ErrAborted = errors.New("derivation aborted")
)

// ErrorKind classifies err into the kinds a caller acts on:
// "invalid_parameter", "allocation_failure", "aborted" or "internal".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, limits.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrAllocation):
		return "allocation_failure"
	case errors.Is(err, ErrAborted):
		return "aborted"
	default:
		return "internal"
	}
}
