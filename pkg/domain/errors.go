package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingFile is returned when a local model path does not exist. This is
// checked before any external tool is invoked.
var ErrMissingFile = errors.New("model file not found")

// UnknownAutomatonError is returned when writing the initial state of an
// automaton that is not part of the model.
type UnknownAutomatonError struct {
	Automaton string
}

func (e *UnknownAutomatonError) Error() string {
	return fmt.Sprintf("unknown automaton %q", e.Automaton)
}

// InvalidTypeError is returned when a dynamically typed initial value has a
// shape that cannot be normalized into a Value.
type InvalidTypeError struct {
	Value any
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid initial value type %T", e.Value)
}

// InvalidValueError is returned when an initial value falls outside the
// automaton's domain. Allowed carries the legal local states for diagnostics.
type InvalidValueError struct {
	Automaton string
	Value     Value
	Allowed   []Scalar
}

func (e *InvalidValueError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = s.String()
	}
	return fmt.Sprintf("invalid value %s for %q (allowed: %s)",
		e.Value, e.Automaton, strings.Join(allowed, ", "))
}

// UnsupportedFormatError is returned when a file extension or declared
// format is not in the supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported model format %q", e.Format)
}

// ConversionError is returned when the external converter or simplifier
// fails. Conversions are deterministic; a failure indicates bad input and is
// never retried.
type ConversionError struct {
	Format string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion from %q failed: %v", e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// FetchError is returned when downloading a remote model fails.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %q failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
