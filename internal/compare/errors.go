package compare

import (
	"errors"
	"fmt"
)

// Kind classifies a failed comparison attempt.
type Kind int

const (
	// KindConfiguration means required model credentials are missing.
	// Reported before any network attempt.
	KindConfiguration Kind = iota + 1
	// KindInput means fewer than two usable images were supplied.
	KindInput
	// KindRemote covers any failure during the remote call: network, auth,
	// service error, malformed response.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInput:
		return "input"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged comparison failure. Every kind is terminal for the
// current attempt only; the session stays usable and the user may correct
// inputs or credentials and try again.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s error: %v", e.Kind, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, a...)}
}

// KindOf returns the kind of err if it is a comparison Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
