package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedData is matched by every *MalformedDataError
	ErrMalformedData = errors.New("malformed data")

	// ErrWriteFailure is matched by every *WriteFailureError
	ErrWriteFailure = errors.New("write failure")
)

// MalformedDataError is returned when a store file exists but is not a JSON
// array of objects. Index is the offending element, or -1 for the whole file.
type MalformedDataError struct {
	Path  string
	Index int
	Err   error
}

func (e *MalformedDataError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("malformed data in %s at element %d: %v", e.Path, e.Index, e.Err)
	}
	return fmt.Sprintf("malformed data in %s: %v", e.Path, e.Err)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}

func (e *MalformedDataError) Is(target error) bool {
	return target == ErrMalformedData
}

// WriteFailureError is returned when a store file could not be replaced.
// The previous file contents are left in place.
type WriteFailureError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}

func (e *WriteFailureError) Is(target error) bool {
	return target == ErrWriteFailure
}
