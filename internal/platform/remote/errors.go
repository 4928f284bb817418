package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks transport, timeout and protocol failures.
	ErrNetwork = errors.New("network error")
	// ErrNotFound marks a page or user absent from the corpus.
	ErrNotFound = errors.New("not found")
)

// NotFoundError carries the user-facing message for a missing page or user.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func userNotFound(id int) error {
	return &NotFoundError{Message: fmt.Sprintf("User with ID %d not found", id)}
}

func pageNotFound(page int) error {
	return &NotFoundError{Message: fmt.Sprintf("page %d not found", page)}
}

// NetworkError wraps the underlying cause with a user-facing message.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Network error"
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
