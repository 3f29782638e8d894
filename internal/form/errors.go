package form

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without parsing messages.
type Kind string

const (
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
	KindServer     Kind = "server"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
)

// Error is the single error type a Session reports. Message is user-facing.
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for validation errors
	Status  int    // HTTP status, when one was received
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Message, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrInFlight is returned when a submission is attempted while another is pending.
var ErrInFlight = errors.New("form: submission already in flight")

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsKind reports whether err carries a *Error of kind k.
func IsKind(err error, k Kind) bool {
	fe, ok := AsError(err)
	return ok && fe.Kind == k
}
