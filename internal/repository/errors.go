// Package repository defines error types that are reused across multiple
// repositories.  Expected failures (bad input, missing documents, writes
// that did not touch exactly one document) are returned as *Error values
// whose message is safe to show to clients.  Every other error comes from
// the driver and means the store itself misbehaved.
package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel kinds.  Handlers match on these with errors.Is.
var (
	// ErrInvalidID is returned when an identifier is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid id")
	// ErrMissingField is returned when a required body field is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidParam is returned when a query parameter fails validation.
	ErrInvalidParam = errors.New("invalid parameter")
	// ErrNotFound is returned when a lookup matched no document.
	ErrNotFound = errors.New("not found")
	// ErrNotAcknowledged is returned when the store did not acknowledge a write.
	ErrNotAcknowledged = errors.New("write not acknowledged")
	// ErrUnexpectedCount is returned when a single-document write touched
	// zero or several documents.
	ErrUnexpectedCount = errors.New("unexpected affected count")
	// ErrNoFilter is returned when a weather query carries no usable filter.
	ErrNoFilter = errors.New("no weather filter")
)

// Error is an expected failure with a client-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err is an expected failure rather than a store
// failure.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// somethingWentWrong is the message used for writes the store refused to
// acknowledge.
const somethingWentWrong = "Something went wrong. Please try again."

// writeError converts driver write errors.  An unacknowledged write becomes
// an expected failure; anything else is wrapped with op.
func writeError(op string, err error) error {
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return newError(ErrNotAcknowledged, somethingWentWrong)
	}
	return fmt.Errorf("%s: %w", op, err)
}
