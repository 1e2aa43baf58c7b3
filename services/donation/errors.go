package donation

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound   = errors.New("payment session not found")
	ErrSessionClosed     = errors.New("payment session is closed")
	ErrInvalidTransition = errors.New("action not allowed in the current payment step")
)

// ValidationError is returned before any external side effect. Message is the
// corrective text shown to the donor.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(msg string, err error) error {
	return &ValidationError{Message: msg, Err: err}
}
