package lnurl

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxURLLength is the longest URL, in characters, that we accept.
const MaxURLLength = 2047

const (
	schemeHTTPS = "https"
	schemeHTTP  = "http"
)

// lud17Schemes are the protocol schemes that may carry a raw, non bech32
// encoded, LNURL (LUD-17).
var lud17Schemes = map[string]bool{
	"lnurlc":  true,
	"lnurlw":  true,
	"lnurlp":  true,
	"keyauth": true,
}

// debugHosts may be reached over plain http.
var debugHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"0.0.0.0":   true,
}

var (
	// ctrlChars matches the C0 and C1 control blocks plus DEL.
	ctrlChars = regexp.MustCompile(`[\x{0000}-\x{001f}\x{007f}-\x{009f}]`)

	// nonRFC3986 matches anything outside the RFC 3986 unreserved and
	// reserved character sets.
	nonRFC3986 = regexp.MustCompile(`[^\]a-zA-Z0-9._~:/?#\[@!$&'()*+,;=-]`)
)

// URLKind classifies the host of a URL.
type URLKind uint8

const (
	// ClearnetURL is a public host, only reachable over https.
	ClearnetURL URLKind = iota

	// OnionURL is a tor hidden service, reachable over http or https.
	OnionURL

	// DebugURL is a loopback host, reachable over http or https.
	DebugURL
)

func (k URLKind) String() string {
	switch k {
	case ClearnetURL:
		return "clearnet"
	case OnionURL:
		return "onion"
	case DebugURL:
		return "debug"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// URL is a validated LNURL service URL. It is immutable once parsed.
type URL struct {
	raw    string
	parsed *url.URL
	kind   URLKind
}

func invalidURL(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidURL, fmt.Sprintf(format, args...))
}

// ParseURL validates raw and returns it as a URL. A nil cfg uses the
// default configuration.
func ParseURL(raw string, cfg *Config) (*URL, error) {
	cfg = configOrDefault(cfg)

	if utf8.RuneCountInString(raw) > MaxURLLength {
		return nil, invalidURL("url longer than %d characters",
			MaxURLLength)
	}

	if !utf8.ValidString(raw) {
		return nil, invalidURL("url is not valid utf-8")
	}

	if ctrlChars.MatchString(raw) {
		return nil, invalidURL("url contains control characters")
	}

	if cfg.StrictRFC3986 && nonRFC3986.MatchString(raw) {
		return nil, invalidURL("url is not RFC3986 compliant")
	}

	if err := checkPercentEncoding(raw); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if parsed.Opaque != "" || parsed.Hostname() == "" {
		return nil, invalidURL("url host is required")
	}

	kind := classifyHost(parsed.Hostname())

	switch scheme := parsed.Scheme; {
	case scheme == schemeHTTPS, lud17Schemes[scheme]:

	case scheme == schemeHTTP:
		if kind == ClearnetURL {
			return nil, invalidURL("http scheme is only allowed " +
				"for onion or loopback hosts")
		}

	default:
		return nil, invalidURL("unsupported scheme %q", scheme)
	}

	return &URL{
		raw:    raw,
		parsed: parsed,
		kind:   kind,
	}, nil
}

// ParseCallbackURL is ParseURL restricted to the http and https schemes.
func ParseCallbackURL(raw string, cfg *Config) (*URL, error) {
	u, err := ParseURL(raw, cfg)
	if err != nil {
		return nil, err
	}

	if u.IsLUD17() {
		return nil, invalidURL("scheme %q not allowed for callbacks",
			u.Scheme())
	}

	return u, nil
}

func classifyHost(host string) URLKind {
	host = strings.ToLower(host)

	switch {
	case strings.HasSuffix(host, ".onion"):
		return OnionURL

	case debugHosts[host]:
		return DebugURL

	default:
		return ClearnetURL
	}
}

// checkPercentEncoding makes sure every '%' starts a two digit hex escape.
func checkPercentEncoding(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}

		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return invalidURL("malformed percent-encoding at "+
				"position %d", i)
		}
		i += 2
	}

	return nil
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}

	return false
}

// Kind returns the host classification.
func (u *URL) Kind() URLKind {
	return u.kind
}

// Scheme returns the lowercase scheme.
func (u *URL) Scheme() string {
	return u.parsed.Scheme
}

// Host returns the host without port or IPv6 brackets.
func (u *URL) Host() string {
	return u.parsed.Hostname()
}

// Port returns the explicit port, if any.
func (u *URL) Port() string {
	return u.parsed.Port()
}

// TLD returns the top-level domain of the host, or an empty string for IP
// hosts and single label hosts.
func (u *URL) TLD() string {
	host := u.Host()
	if net.ParseIP(host) != nil {
		return ""
	}

	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return ""
	}

	return host[i+1:]
}

// Path returns the decoded path.
func (u *URL) Path() string {
	return u.parsed.Path
}

// RawQuery returns the encoded query string, without the '?'.
func (u *URL) RawQuery() string {
	return u.parsed.RawQuery
}

// Base returns the URL without query and fragment.
func (u *URL) Base() string {
	return u.parsed.Scheme + "://" + u.parsed.Host + u.parsed.EscapedPath()
}

// QueryParams returns the decoded query parameters. When a key is repeated
// the first value wins. Pairs are split on '&' only, so a ';' is part of
// the value.
func (u *URL) QueryParams() map[string]string {
	params := make(map[string]string)
	for _, pair := range strings.Split(u.parsed.RawQuery, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}

		if _, ok := params[key]; !ok {
			params[key] = value
		}
	}

	return params
}

// IsLUD17 reports whether the URL uses one of the LUD-17 protocol schemes.
func (u *URL) IsLUD17() bool {
	return lud17Schemes[u.parsed.Scheme]
}

// CallbackURL returns the URL to fetch. LUD-17 schemes are swapped for
// https, or http for onion hosts. Other URLs are returned as is.
func (u *URL) CallbackURL() *URL {
	if !u.IsLUD17() {
		return u
	}

	scheme := schemeHTTPS
	if u.kind == OnionURL {
		scheme = schemeHTTP
	}

	parsed := *u.parsed
	parsed.Scheme = scheme

	return &URL{
		raw:    scheme + u.raw[len(u.parsed.Scheme):],
		parsed: &parsed,
		kind:   u.kind,
	}
}

// String returns the URL as it was given.
func (u *URL) String() string {
	return u.raw
}

// MarshalText implements encoding.TextMarshaler.
func (u *URL) MarshalText() ([]byte, error) {
	return []byte(u.raw), nil
}
