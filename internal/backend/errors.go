package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrRejected indicates the backend answered but refused the request.
	ErrRejected = errors.New("backend rejected request")

	// ErrInvalidResponse indicates a body that is not the expected envelope.
	ErrInvalidResponse = errors.New("invalid backend response")
)

// RejectedError carries the status and message of a refused request.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("backend rejected request (status %d): %s", e.Status, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}
