package serializer

import (
	"errors"
	"fmt"
)

var (
	// ErrConversion matches every *ConversionError via errors.Is.
	ErrConversion = errors.New("conversion failed")

	// ErrMapping matches every *MappingError via errors.Is.
	ErrMapping = errors.New("mapping failed")
)

// ConversionError is returned when a strategy cannot coerce a raw storage value
// into its domain type, or a domain value back into storage form.
//
// Callers treat it as a data-integrity fault: log it and abort the operation.
type ConversionError struct {
	// Field is the storage column the value belongs to. Strategies leave it
	// empty, the Serializer fills it in.
	Field string

	// Strategy is the Name() of the strategy that failed.
	Strategy string

	// Raw is the offending value.
	Raw any

	Err error
}

func (e *ConversionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s strategy: cannot convert %#v: %v", e.Strategy, e.Raw, e.Err)
	}
	return fmt.Sprintf("field %q: %s strategy: cannot convert %#v: %v", e.Field, e.Strategy, e.Raw, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConversion) true for any *ConversionError.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// MappingError is returned when a decoded column has no matching attribute on
// the target struct, or when the decoded value cannot be assigned to it.
type MappingError struct {
	Field  string
	Target string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("field %q: cannot map onto %s: %s", e.Field, e.Target, e.Reason)
}

func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}

func newConversionError(strategy string, raw any, err error) *ConversionError {
	return &ConversionError{Strategy: strategy, Raw: raw, Err: err}
}
