package osc

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader is returned when the address does not start with '/'
	// or the type tag string is missing or does not start with ','.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrUnsupportedType is returned for a type tag other than 'i', 'f' or 's'.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrTruncated is returned when a declared field runs past the end of the data.
	ErrTruncated = errors.New("truncated")
)

// DecodeError describes where decoding stopped.
type DecodeError struct {
	// Kind is one of ErrMalformedHeader, ErrUnsupportedType or ErrTruncated.
	Kind error
	// Offset is the byte offset of the offending field.
	Offset int
	// Address is the decoded address, if decoding got that far.
	Address string
	// Tag is the offending type tag, set for ErrUnsupportedType.
	Tag byte
}

func (e *DecodeError) Error() string {
	switch {
	case e.Tag != 0:
		return fmt.Sprintf("osc: %v %q at offset %d", e.Kind, e.Tag, e.Offset)
	case e.Address != "":
		return fmt.Sprintf("osc: %v at offset %d (address %s)", e.Kind, e.Offset, e.Address)
	default:
		return fmt.Sprintf("osc: %v at offset %d", e.Kind, e.Offset)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}
