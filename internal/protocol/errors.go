package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated           = errors.New("protocol: truncated input")
	ErrUnrecognizedValue   = errors.New("protocol: unrecognized value")
	ErrLengthMismatch      = errors.New("protocol: length mismatch")
	ErrInvalidQubitID      = errors.New("protocol: invalid qubit id")
	ErrInvalidTarget       = errors.New("protocol: invalid target qubit")
	ErrMissingParameter    = errors.New("protocol: missing parameter")
	ErrUnexpectedParameter = errors.New("protocol: unexpected parameter")
	ErrWrongPayload        = errors.New("protocol: wrong payload variant")
	ErrUnsupportedResponse = errors.New("protocol: unsupported response type")
	ErrUnsupportedRequest  = errors.New("protocol: unsupported request type")
)

// DecodeError reports a decode failure for one header field. Kind is one of
// ErrTruncated, ErrUnrecognizedValue or ErrLengthMismatch.
type DecodeError struct {
	Kind   error
	Header string
	Field  string
	Value  uint64
	Need   int
	Have   int
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrTruncated:
		return fmt.Sprintf("%v: %s needs %d bytes, have %d", e.Kind, e.Header, e.Need, e.Have)
	case ErrLengthMismatch:
		return fmt.Sprintf("%v: %s.%s declares %d bytes, expected %d", e.Kind, e.Header, e.Field, e.Have, e.Need)
	default:
		return fmt.Sprintf("%v: %s.%s=%d", e.Kind, e.Header, e.Field, e.Value)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// Truncated builds the error returned when a buffer is shorter than a header
// or message requires.
func Truncated(header string, need, have int) error {
	return &DecodeError{Kind: ErrTruncated, Header: header, Need: need, Have: have}
}

// Unrecognized builds the error returned when a field holds an undefined code.
func Unrecognized(header, field string, value uint64) error {
	return &DecodeError{Kind: ErrUnrecognizedValue, Header: header, Field: field, Value: value}
}

// LengthMismatch builds the error returned when a declared length disagrees
// with the bytes a message shape requires.
func LengthMismatch(header, field string, declared, expected int) error {
	return &DecodeError{Kind: ErrLengthMismatch, Header: header, Field: field, Need: expected, Have: declared}
}
