package domain

import (
	"errors"
	"fmt"
)

// ErrStorage is the sentinel every persistence fault wraps. The REPL matches
// it with errors.Is, warns, and continues with learning degraded.
var ErrStorage = errors.New("storage unavailable")

// ConnectivityError means the interpreter service is unreachable or timed
// out. Interpretation stays unavailable until the service is back.
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach interpreter at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// InterpretationError means the service answered but the reply was empty or
// malformed. Retryable by rephrasing.
type InterpretationError struct {
	Reason string
	Err    error
}

func (e *InterpretationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interpretation failed: %s: %v", e.Reason, e.Err)
	}
	return "interpretation failed: " + e.Reason
}

func (e *InterpretationError) Unwrap() error { return e.Err }

// ValidationError marks a command that failed shell-syntax validation and
// must never be executed.
type ValidationError struct {
	Command string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid command syntax: %s (%s)", e.Command, e.Reason)
}

// StorageError wraps a persistence failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStorage) match any StorageError.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
