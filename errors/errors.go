package errors

import (
	// Go Internal Packages
	"errors"
	"fmt"
	"strings"
)

// Kind groups errors into classes the transport and service layers care about.
type Kind uint8

const (
	Other         Kind = iota // unclassified
	Invalid                   // caller supplied bad input
	NotFound                  // requested entity does not exist
	Conflict                  // state transition not allowed
	Unprocessable             // understood but cannot be acted on
	Internal                  // downstream or infrastructure failure
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Unprocessable:
		return "unprocessable"
	case Internal:
		return "internal"
	}
	return "other"
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and a message. A nil err is allowed for
// errors that originate locally.
func E(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, walking the wrap chain until the
// first classified error is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ValidationErrors collects per-field validation failures so a caller
// sees all of them at once instead of one per round trip.
type ValidationErrors struct {
	fields []string
}

func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{}
}

func (v *ValidationErrors) Add(field, message string) {
	v.fields = append(v.fields, fmt.Sprintf("%s: %s", field, message))
}

// Err returns nil when no failures were recorded.
func (v *ValidationErrors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return errors.New(strings.Join(v.fields, "; "))
}
