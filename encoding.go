package lnurl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ellemouton/lnurl/bech32"
)

const (
	humanReadablePart = "lnurl"

	// lightningPrefix is the URI scheme wallets put in front of LNURLs.
	lightningPrefix = "lightning:"

	// MaxLnurlLength is the longest bech32 LNURL we accept. An ASCII URL
	// of MaxURLLength fits; a URL of multi-byte characters may not.
	MaxLnurlLength = 4096
)

// Codec encodes and decodes LNURLs using a fixed Config.
type Codec struct {
	cfg *Config
}

// NewCodec returns a Codec for cfg. A nil cfg uses the default
// configuration.
func NewCodec(cfg *Config) *Codec {
	return &Codec{
		cfg: configOrDefault(cfg),
	}
}

// Config returns the configuration the codec validates URLs with.
func (c *Codec) Config() *Config {
	return c.cfg
}

// ParseURL validates raw with the codec's configuration.
func (c *Codec) ParseURL(raw string) (*URL, error) {
	return ParseURL(raw, c.cfg)
}

// Encode validates url and returns it as an LNURL.
func (c *Codec) Encode(url string) (*Lnurl, error) {
	u, err := c.ParseURL(url)
	if err != nil {
		return nil, err
	}

	bech, err := encodeURL(u.String())
	if err != nil {
		return nil, err
	}

	return &Lnurl{
		bech32: bech,
		url:    u,
	}, nil
}

// Decode returns the URL behind an LNURL. The input may carry a
// "lightning:" prefix. Anything that is not a bech32 LNURL is validated as
// a raw URL and passed through (LUD-17).
func (c *Codec) Decode(lightning string) (*URL, error) {
	l, err := c.Parse(lightning)
	if err != nil {
		return nil, err
	}

	return l.URL(), nil
}

// Parse parses either a bech32 LNURL or a raw URL into an Lnurl. Raw URLs
// using a LUD-17 scheme have no bech32 form.
func (c *Codec) Parse(lightning string) (*Lnurl, error) {
	lightning = clean(lightning)

	if !looksLikeBech32(lightning) {
		u, err := c.ParseURL(lightning)
		if err != nil {
			return nil, err
		}

		l := &Lnurl{url: u}
		if u.IsLUD17() {
			return l, nil
		}

		l.bech32, err = encodeURL(u.String())
		if err != nil {
			return nil, err
		}

		return l, nil
	}

	raw, err := decodeURL(lightning)
	if err != nil {
		return nil, err
	}

	u, err := c.ParseURL(raw)
	if err != nil {
		return nil, err
	}

	return &Lnurl{
		bech32: lightning,
		url:    u,
	}, nil
}

// Encode validates url with the default configuration and returns it as an
// LNURL.
func Encode(url string) (*Lnurl, error) {
	return NewCodec(nil).Encode(url)
}

// Decode returns the URL behind an LNURL using the default configuration.
func Decode(lightning string) (*URL, error) {
	return NewCodec(nil).Decode(lightning)
}

// Parse parses an LNURL or raw URL using the default configuration.
func Parse(lightning string) (*Lnurl, error) {
	return NewCodec(nil).Parse(lightning)
}

// clean trims whitespace and the "lightning:" prefix, in any case.
func clean(lightning string) string {
	lightning = strings.TrimSpace(lightning)
	if len(lightning) >= len(lightningPrefix) &&
		strings.EqualFold(lightning[:len(lightningPrefix)], lightningPrefix) {

		lightning = lightning[len(lightningPrefix):]
	}

	return lightning
}

func looksLikeBech32(s string) bool {
	return len(s) > len(humanReadablePart) &&
		strings.EqualFold(s[:len(humanReadablePart)+1],
			humanReadablePart+"1")
}

// decodeURL decodes a bech32 LNURL into the raw URL string without
// validating the URL.
func decodeURL(lnurl string) (string, error) {
	hrp, data, err := bech32.DecodeWithLimit(lnurl, MaxLnurlLength)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidLnurl, err)
	}

	if hrp != humanReadablePart {
		return "", fmt.Errorf("%w: incorrect hrp, expected '%s', "+
			"got '%s'", ErrInvalidLnurl, humanReadablePart, hrp)
	}

	data, err = bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidLnurl, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: url is not valid utf-8",
			ErrInvalidLnurl)
	}

	return string(data), nil
}

// encodeURL encodes url as an uppercase bech32 LNURL without validating it.
func encodeURL(url string) (string, error) {
	converted, err := bech32.ConvertBits([]byte(url), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	str, err := bech32.EncodeWithLimit(
		humanReadablePart, converted, MaxLnurlLength,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	return strings.ToUpper(str), nil
}
