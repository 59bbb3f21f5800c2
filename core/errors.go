package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a required field is missing or malformed. Nothing is mutated.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "validation failed"
	}
	return err.Err.Error()
}

// LookupError is returned when an operation references an id that is not in the store.
type LookupError struct {
	Kind string
	ID   string
}

func NewLookupError(kind, id string) error {
	return &LookupError{Kind: kind, ID: id}
}

func (err LookupError) Error() string {
	return fmt.Sprintf("%s %q not found", err.Kind, err.ID)
}

// IsLookup reports whether the cause of err is a *LookupError.
func IsLookup(err error) bool {
	_, ok := errors.Cause(err).(*LookupError)
	return ok
}

// RemoteFetchError wraps network and decoding failures talking to the persistence endpoint.
type RemoteFetchError struct {
	Op  string
	Err error
}

func NewRemoteFetchError(op string, err error) error {
	return &RemoteFetchError{Op: op, Err: err}
}

func (err RemoteFetchError) Error() string {
	return err.Op + ": " + err.Err.Error()
}

func (err RemoteFetchError) Cause() error { return err.Err }

// IsRemoteFetch reports whether err is (or wraps) a *RemoteFetchError.
func IsRemoteFetch(err error) bool {
	for err != nil {
		if _, ok := err.(*RemoteFetchError); ok {
			return true
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = cause.Cause()
	}
	return false
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
