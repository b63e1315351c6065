package scan

import (
	"errors"
	"fmt"
)

// ErrStopped is returned when an OnError callback requests termination.
// The traversal unwinds and no partial result is returned.
var ErrStopped = errors.New("stopped by caller")

// AccessError is returned when a filesystem operation on an entry fails.
type AccessError struct {
	// Path is the path of the entry that could not be accessed.
	Path string
	// Op is the operation that failed: "lstat" or "readdir".
	Op string
	// Err is the underlying error.
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// InvalidOptionsError is returned when Options fail validation.
type InvalidOptionsError struct {
	// Field is the offending Options field.
	Field string
	// Reason describes why the value is rejected.
	Reason string
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Field, e.Reason)
}
