// Package errs contains sentinel errors and the failure taxonomy shared by all layers.
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common sentinels across gateway/repository/screen layers.
var (
	// ErrNotFound indicates the requested remote entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the remote service rejected the credential (401/403).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a mutating operation was attempted without the leader capability.
	ErrForbidden = errors.New("forbidden")

	// ErrShape indicates a success status whose body lacks the expected data.
	ErrShape = errors.New("unexpected response shape")

	// ErrNoSession indicates the credential store holds no identity.
	ErrNoSession = errors.New("no session")

	// ErrValidation indicates structured field errors (client or server side).
	ErrValidation = errors.New("validation failed")

	// ErrNoPendingConfirmation indicates a confirm/cancel without an open delete confirmation.
	ErrNoPendingConfirmation = errors.New("no pending confirmation")
)

// RequestError is the uniform rejection produced by the gateway.
// Status is 0 when no response was obtained.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Body    []byte
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is maps HTTP statuses onto the sentinels so callers can use errors.Is.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// ValidationError carries flattened field messages ready for display.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Localized carries the user-facing message a failure was converted into.
type Localized struct {
	Message string
	Err     error
}

func (e *Localized) Error() string { return e.Message }

func (e *Localized) Unwrap() error { return e.Err }

// Message returns the display text of err: the localized message, the validation
// lines joined, or err.Error() as a last resort.
func Message(err error) string {
	var le *Localized
	if errors.As(err, &le) {
		return le.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return strings.Join(ve.Messages, "\n")
	}
	return err.Error()
}
