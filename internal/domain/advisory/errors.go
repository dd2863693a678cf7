package advisory

import "errors"

// ErrorKind classifies why a model backed advisory could not be produced.
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindStatus     ErrorKind = "status"
	KindEmptyReply ErrorKind = "empty_reply"
	KindNoJSON     ErrorKind = "no_json"
	KindDecode     ErrorKind = "decode"
	KindSchema     ErrorKind = "schema"
)

// Error is the failure of the model step.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "advisory " + string(e.Kind)
	}
	return "advisory " + string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind of an advisory error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var advErr *Error
	if errors.As(err, &advErr) {
		return advErr.Kind
	}
	return ""
}

func newError(kind ErrorKind, err error) error {
	return &Error{Kind: kind, Err: err}
}
