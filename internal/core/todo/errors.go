package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a todo item does not exist or is not
	// visible to the requester.
	ErrNotFound = errors.New("todo item not found")
	// ErrConflict is returned when an update on today's schedule changes
	// nothing and was not forced.
	ErrConflict = errors.New("no changes: pass bypass to update the timestamp anyway")
)

// ValidationError reports rejected input before anything is written. Err is
// usually a criterio.FieldErrors carrying one reason per field.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AsValidation wraps a non-nil error as a ValidationError.
func AsValidation(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

// StorageError reports a persistence failure. The store does not retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
