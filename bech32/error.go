package bech32

import (
	"errors"
	"fmt"
)

var (
	// ErrDecoding is wrapped by every error returned from the Decode
	// functions.
	ErrDecoding = errors.New("bech32 decoding error")

	// ErrEncoding is wrapped by every error returned from the Encode
	// functions.
	ErrEncoding = errors.New("bech32 encoding error")

	errEmptyHRP = errors.New("empty human-readable part")
)

// decodingError wraps a btcutil error so that it matches both ErrDecoding
// and the original typed error.
func decodingError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecoding, err)
}

func encodingError(err error) error {
	return fmt.Errorf("%w: %w", ErrEncoding, err)
}
