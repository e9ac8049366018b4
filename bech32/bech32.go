// Package bech32 wraps btcutil's bech32 codec with a configurable length
// ceiling. BIP-173 caps strings at 90 characters, which LNURLs and
// invoices routinely exceed.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
)

const (
	// MaxLength is the maximum length of a bech32 string as defined in
	// BIP-173.
	MaxLength = 90

	// checksumLength is the number of characters used by the checksum.
	checksumLength = 6
)

// Decode decodes a bech32 encoded string no longer than MaxLength,
// returning the lowercase human-readable part and the 5-bit data with the
// checksum stripped.
func Decode(bech string) (string, []byte, error) {
	return DecodeWithLimit(bech, MaxLength)
}

// DecodeNoLimit decodes a bech32 encoded string of any length.
func DecodeNoLimit(bech string) (string, []byte, error) {
	return DecodeWithLimit(bech, 0)
}

// DecodeWithLimit decodes a bech32 encoded string whose total length may
// not exceed limit. A limit of zero or less disables the check.
func DecodeWithLimit(bech string, limit int) (string, []byte, error) {
	if limit > 0 && len(bech) > limit {
		return "", nil, decodingError(bech32.ErrInvalidLength(len(bech)))
	}

	hrp, data, err := bech32.DecodeNoLimit(bech)
	if err != nil {
		return "", nil, decodingError(err)
	}

	return hrp, data, nil
}

// Encode encodes a human-readable part and 5-bit data into a lowercase
// bech32 string no longer than MaxLength.
func Encode(hrp string, data []byte) (string, error) {
	return EncodeWithLimit(hrp, data, MaxLength)
}

// EncodeWithLimit encodes a human-readable part and 5-bit data into a
// lowercase bech32 string whose total length may not exceed limit. A limit
// of zero or less disables the check.
func EncodeWithLimit(hrp string, data []byte, limit int) (string, error) {
	// btcutil doesn't check the hrp when encoding.
	if len(hrp) == 0 {
		return "", encodingError(errEmptyHRP)
	}
	for i := 0; i < len(hrp); i++ {
		if hrp[i] < 33 || hrp[i] > 126 {
			return "", encodingError(
				bech32.ErrInvalidCharacter(hrp[i]),
			)
		}
	}

	total := len(hrp) + 1 + len(data) + checksumLength
	if limit > 0 && total > limit {
		return "", encodingError(bech32.ErrInvalidLength(total))
	}

	str, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", encodingError(err)
	}

	return str, nil
}

// ConvertBits regroups data from fromBits to toBits bits per byte. Without
// pad a trailing group longer than four bits, or one with non-zero bits,
// fails with bech32.ErrInvalidIncompleteGroup.
func ConvertBits(data []byte, fromBits, toBits uint8, pad bool) ([]byte,
	error) {

	return bech32.ConvertBits(data, fromBits, toBits, pad)
}
