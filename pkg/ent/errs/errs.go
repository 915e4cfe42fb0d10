// Package errs contains the error taxonomy of the pipeline. User-facing
// errors carry a Msg that is shown to the operator verbatim.
package errs

import (
	"strings"

	"github.com/juju/errors"
)

// Kind classifies an error by its origin.
type Kind int

const (
	// UnknownError is the zero value.
	UnknownError Kind = iota

	// ParseError means a file could not be read as a delimited table.
	ParseError

	// SchemaError means required columns are absent.
	SchemaError

	// CrossReferenceError means redundant sources disagree on an ID, a well
	// or a sequence.
	CrossReferenceError

	// LookupError means an expected entity or constituent was not found.
	LookupError

	// ConfigurationError is a programming or deployment defect.
	ConfigurationError

	// ExternalServiceError means a remote registry call failed.
	ExternalServiceError
)

var kindNames = map[Kind]string{
	UnknownError:         "UnknownError",
	ParseError:           "ParseError",
	SchemaError:          "SchemaError",
	CrossReferenceError:  "CrossReferenceError",
	LookupError:          "LookupError",
	ConfigurationError:   "ConfigurationError",
	ExternalServiceError: "ExternalServiceError",
}

// causes maps kinds to juju/errors causes, so that errors.Is(err,
// errors.NotFound) holds for a LookupError.
var causes = map[Kind]errors.ConstError{
	ParseError:          errors.NotValid,
	SchemaError:         errors.NotValid,
	CrossReferenceError: errors.NotValid,
	LookupError:         errors.NotFound,
	ConfigurationError:  errors.NotProvisioned,
}

// String returns the name of the kind.
func (k Kind) String() string {
	if res, ok := kindNames[k]; ok {
		return res
	}
	return kindNames[UnknownError]
}

// Error is an error with a kind and a human-readable message.
type Error struct {
	// Kind of the error.
	Kind Kind

	// Msg is the message for the operator.
	Msg string

	// Err is an optional underlying cause.
	Err error
}

// New creates an Error of a given kind.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap creates an Error of a given kind around a cause. The cause is
// traced to the calling location.
func Wrap(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: errors.Trace(err)}
}

// Error implements error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the juju/errors cause of the kind.
func (e *Error) Is(target error) bool {
	c, ok := causes[e.Kind]
	return ok && target == error(c)
}

// KindOf returns the kind of the first *Error found in the chain of err.
// For a List it returns the kind of its first element.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var l List
	if errors.As(err, &l) && len(l) > 0 {
		return KindOf(l[0])
	}
	if errors.Is(err, errors.NotFound) {
		return LookupError
	}
	return UnknownError
}

// Is reports whether err is of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Fatal reports whether err is a defect rather than a data problem.
// Fatal errors must not be absorbed as user-facing messages.
func Fatal(err error) bool {
	k := KindOf(err)
	return k == ConfigurationError || k == ExternalServiceError
}

// List is an ordered collection of errors reported together.
type List []error

// Error joins all messages, one per line.
func (l List) Error() string {
	msgs := make([]string, len(l))
	for i := range l {
		msgs[i] = l[i].Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap allows errors.Is and errors.As to look inside the list.
func (l List) Unwrap() []error {
	return l
}

// Append adds err to the list if err is not nil. Nested lists are
// flattened.
func (l List) Append(err error) List {
	if err == nil {
		return l
	}
	var nested List
	if errors.As(err, &nested) {
		return append(l, nested...)
	}
	return append(l, err)
}

// Err returns nil for an empty list, the list otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Names formats a list of names as ['a', 'b'] for operator messages.
func Names(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	return "['" + strings.Join(ss, "', '") + "']"
}
