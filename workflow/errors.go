package workflow

import "errors"

var (
	// ErrValidation is returned for missing or malformed input
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when an application or advertisement id does not resolve
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized is returned when the actor may not perform the action
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidTransition is returned when the action is not legal for the current status
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrStaleState is returned when the application changed after it was read
	ErrStaleState = errors.New("application was modified concurrently")
)

var (
	// ErrInvalidDecision is a validation error for a decision outside the action's set
	ErrInvalidDecision = wrapKind(ErrValidation, "invalid decision")

	// ErrReferentNotFound is returned when the application's advertisement is gone
	ErrReferentNotFound = wrapKind(ErrNotFound, "referenced advertisement not found")
)

type kindError struct {
	kind error
	msg  string
}

func wrapKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.msg }

func (e *kindError) Unwrap() error { return e.kind }
