package domain

import "errors"

// Store error kinds. Every *StoreError unwraps to exactly one of these.
var (
	ErrConflict     = errors.New("record already exists")
	ErrUnauthorized = errors.New("store rejected credentials")
	ErrStoreFailure = errors.New("store request failed")
)

// Screen-level errors.
var (
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrAlreadySubmitted = errors.New("employee already created")
	ErrInvalidForm      = errors.New("invalid employee form")
	ErrAlreadyMarked    = errors.New("attendance already marked for today")
	ErrMarkInFlight     = errors.New("attendance mark already in progress")
	ErrMarkFailed       = errors.New("attendance mark failed")
	ErrInvalidStatus    = errors.New("invalid attendance status")
	ErrUnknownEmployee  = errors.New("unknown employee")
	ErrScreenClosed     = errors.New("screen closed")
)

// StoreError is an error reported by the remote collection store. Message is
// the store's own text and is what screens show to the user.
type StoreError struct {
	Kind    error
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MessageOf returns the store's message carried by err, or fallback when err
// carries none.
func MessageOf(err error, fallback string) string {
	var se *StoreError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
