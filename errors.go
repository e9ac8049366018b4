package lnurl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEncoding is returned when a URL can't be turned into an LNURL.
	ErrEncoding = errors.New("could not encode lnurl")

	// ErrInvalidLnurl is returned when a string is not a valid bech32
	// encoded LNURL.
	ErrInvalidLnurl = errors.New("invalid lnurl")

	// ErrInvalidURL is returned when a URL fails validation.
	ErrInvalidURL = errors.New("invalid url")

	// ErrUnknownResponse is returned when a response can't be classified
	// as any of the known LNURL responses.
	ErrUnknownResponse = errors.New("unknown lnurl response")

	// ErrInvalidResponse is returned when a classified response fails
	// validation.
	ErrInvalidResponse = errors.New("invalid lnurl response")

	// ErrInvalidMetadata is returned when pay request metadata is not
	// properly formed.
	ErrInvalidMetadata = errors.New("invalid lnurl pay metadata")

	// ErrInvalidLnAddress is returned when parsing an invalid lightning
	// address.
	ErrInvalidLnAddress = errors.New("invalid lightning address")
)

// ValidationError describes a response field, or set of fields, that failed
// validation. It matches ErrInvalidResponse with errors.Is.
type ValidationError struct {
	// Fields holds the wire names of the offending fields.
	Fields []string

	// Err is the underlying reason.
	Err error
}

func newValidationError(err error, fields ...string) *ValidationError {
	return &ValidationError{
		Fields: fields,
		Err:    err,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInvalidResponse,
		strings.Join(e.Fields, ", "), e.Err)
}

// Unwrap returns the underlying reason.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrInvalidResponse.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidResponse
}
