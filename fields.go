package lnurl

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lightningnetwork/lnd/lnwire"
)

var (
	errMissing  = errors.New("field is required")
	errNegative = errors.New("must not be negative")
)

func typeError(want string, got interface{}) error {
	return fmt.Errorf("expected %s, got %T", want, got)
}

// fields reads typed values out of a decoded JSON object whose keys have
// been normalized to camelCase. Every failure is a *ValidationError naming
// the key.
type fields map[string]interface{}

func (f fields) has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

func (f fields) str(key string) (string, bool, error) {
	if !f.has(key) {
		return "", false, nil
	}

	s, ok := f[key].(string)
	if !ok {
		return "", false, newValidationError(
			typeError("string", f[key]), key,
		)
	}

	return s, true, nil
}

func (f fields) requiredStr(key string) (string, error) {
	s, ok, err := f.str(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", newValidationError(errMissing, key)
	}

	return s, nil
}

func (f fields) boolean(key string) (bool, bool, error) {
	if !f.has(key) {
		return false, false, nil
	}

	switch v := f[key].(type) {
	case bool:
		return v, true, nil

	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, false, newValidationError(err, key)
		}
		return b, true, nil

	default:
		return false, false, newValidationError(
			typeError("bool", v), key,
		)
	}
}

// uint reads a non-negative integer. JSON numbers and numeric strings are
// both accepted since many services send amounts as strings.
func (f fields) uint(key string) (uint64, bool, error) {
	if !f.has(key) {
		return 0, false, nil
	}

	n, err := toUint(f[key])
	if err != nil {
		return 0, false, newValidationError(err, key)
	}

	return n, true, nil
}

func (f fields) requiredUint(key string) (uint64, error) {
	n, ok, err := f.uint(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, newValidationError(errMissing, key)
	}

	return n, nil
}

func (f fields) requiredMsat(key string) (lnwire.MilliSatoshi, error) {
	n, err := f.requiredUint(key)
	return lnwire.MilliSatoshi(n), err
}

func (f fields) url(key string, codec *Codec) (*URL, error) {
	s, ok, err := f.str(key)
	if err != nil || !ok {
		return nil, err
	}

	u, err := ParseCallbackURL(s, codec.Config())
	if err != nil {
		return nil, newValidationError(err, key)
	}

	return u, nil
}

func (f fields) requiredURL(key string, codec *Codec) (*URL, error) {
	u, err := f.url(key, codec)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, newValidationError(errMissing, key)
	}

	return u, nil
}

func (f fields) object(key string) (fields, error) {
	if !f.has(key) {
		return nil, nil
	}

	m, ok := f[key].(map[string]interface{})
	if !ok {
		return nil, newValidationError(typeError("object", f[key]), key)
	}

	return fields(m), nil
}

func (f fields) array(key string) ([]interface{}, error) {
	if !f.has(key) {
		return nil, nil
	}

	a, ok := f[key].([]interface{})
	if !ok {
		return nil, newValidationError(typeError("array", f[key]), key)
	}

	return a, nil
}

func toUint(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case json.Number:
		return parseUint(n.String())

	case string:
		return parseUint(strings.TrimSpace(n))

	case float64:
		if n < 0 {
			return 0, errNegative
		}
		if n != math.Trunc(n) || n >= 1<<64 {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return uint64(n), nil

	case int:
		return signed(int64(n))
	case int32:
		return signed(int64(n))
	case int64:
		return signed(n)
	case uint:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case lnwire.MilliSatoshi:
		return uint64(n), nil

	default:
		return 0, typeError("integer", v)
	}
}

func signed(n int64) (uint64, error) {
	if n < 0 {
		return 0, errNegative
	}

	return uint64(n), nil
}

func parseUint(s string) (uint64, error) {
	if strings.HasPrefix(s, "-") {
		return 0, errNegative
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return n, nil
	}

	// Some services send integral amounts as 1000.0 or 1e3.
	fl, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}

	return toUint(fl)
}

// isHexBytes reports whether s is the hex encoding of exactly n bytes.
func isHexBytes(s string, n int) bool {
	b, err := hex.DecodeString(s)
	return err == nil && len(b) == n
}
