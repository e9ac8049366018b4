package lnurl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		strict bool
		kind   URLKind
		valid  bool
	}{
		{
			name:  "https clearnet",
			url:   "https://service.io/?q=3fc3645b439ce8e7f2553a69e5267081",
			kind:  ClearnetURL,
			valid: true,
		},
		{
			name:  "http clearnet",
			url:   "http://service.io/",
			valid: false,
		},
		{
			name:  "http onion",
			url:   "http://abc.onion/path",
			kind:  OnionURL,
			valid: true,
		},
		{
			name:  "https onion",
			url:   "https://abc.onion",
			kind:  OnionURL,
			valid: true,
		},
		{
			name:  "http localhost",
			url:   "http://localhost:8080/pay",
			kind:  DebugURL,
			valid: true,
		},
		{
			name:  "http loopback",
			url:   "http://127.0.0.1/",
			kind:  DebugURL,
			valid: true,
		},
		{
			name:  "http any address",
			url:   "http://0.0.0.0:5000",
			kind:  DebugURL,
			valid: true,
		},
		{
			name:  "lud17 scheme",
			url:   "lnurlp://service.io/pay",
			kind:  ClearnetURL,
			valid: true,
		},
		{
			name:  "unsupported scheme",
			url:   "ftp://service.io/",
			valid: false,
		},
		{
			name:  "no host",
			url:   "https:///path",
			valid: false,
		},
		{
			name:  "not a url",
			url:   "service.io",
			valid: false,
		},
		{
			name:  "control character",
			url:   "https://service.io/\x00",
			valid: false,
		},
		{
			name:  "c1 control character",
			url:   "https://service.io/\u0085",
			valid: false,
		},
		{
			name:  "delete character",
			url:   "https://service.io/\x7f",
			valid: false,
		},
		{
			name:  "invalid utf-8",
			url:   "https://service.io/p\xff",
			valid: false,
		},
		{
			name:  "truncated utf-8 sequence",
			url:   "https://service.io/?q=\xe2\x82",
			valid: false,
		},
		{
			name:  "malformed percent encoding",
			url:   "https://service.io/%zz",
			valid: false,
		},
		{
			name:  "truncated percent encoding",
			url:   "https://service.io/%2",
			valid: false,
		},
		{
			name:  "valid percent encoding",
			url:   "https://service.io/%20a",
			kind:  ClearnetURL,
			valid: true,
		},
		{
			name:  "non rfc3986 lenient",
			url:   "https://service.io/?q=a|b",
			kind:  ClearnetURL,
			valid: true,
		},
		{
			name:   "non rfc3986 strict",
			url:    "https://service.io/?q=a|b",
			strict: true,
			valid:  false,
		},
		{
			name:   "rfc3986 strict",
			url:    "https://service.io/?q=a&b=[c]",
			strict: true,
			kind:   ClearnetURL,
			valid:  true,
		},
		{
			name:  "too long",
			url:   "https://service.io/" + strings.Repeat("a", MaxURLLength),
			valid: false,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			u, err := ParseURL(test.url, &Config{
				StrictRFC3986: test.strict,
			})
			if !test.valid {
				require.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.kind, u.Kind())
			require.Equal(t, test.url, u.String())
		})
	}
}

func TestURLAccessors(t *testing.T) {
	u, err := ParseURL("https://pay.service.io:8443/api/v1?tag=login&k1=ab%20cd#frag", nil)
	require.NoError(t, err)

	require.Equal(t, "https", u.Scheme())
	require.Equal(t, "pay.service.io", u.Host())
	require.Equal(t, "8443", u.Port())
	require.Equal(t, "io", u.TLD())
	require.Equal(t, "/api/v1", u.Path())
	require.Equal(t, "tag=login&k1=ab%20cd", u.RawQuery())
	require.Equal(t, "https://pay.service.io:8443/api/v1", u.Base())
	require.Equal(t, map[string]string{
		"tag": "login",
		"k1":  "ab cd",
	}, u.QueryParams())
	require.False(t, u.IsLUD17())

	text, err := u.MarshalText()
	require.NoError(t, err)
	require.Equal(t, u.String(), string(text))

	ip, err := ParseURL("http://127.0.0.1:8080/", nil)
	require.NoError(t, err)
	require.Empty(t, ip.TLD())
}

// TestQueryParamsFirstWins pins the resolution of repeated query keys.
func TestQueryParamsFirstWins(t *testing.T) {
	u, err := ParseURL("https://service.io/?a=1&b=2&a=3", nil)
	require.NoError(t, err)

	require.Equal(t, "1", u.QueryParams()["a"])
	require.Equal(t, "2", u.QueryParams()["b"])
}

// TestQueryParamsSemicolon checks that ';' does not split a pair.
func TestQueryParamsSemicolon(t *testing.T) {
	u, err := ParseURL("https://service.io/auth?tag=login&k1=ab;cd", nil)
	require.NoError(t, err)

	params := u.QueryParams()
	require.Equal(t, "login", params["tag"])
	require.Equal(t, "ab;cd", params["k1"])

	u, err = ParseURL("https://service.io/?a=x%20y&b=1+2&&c&d=", nil)
	require.NoError(t, err)

	params = u.QueryParams()
	require.Equal(t, "x y", params["a"])
	require.Equal(t, "1 2", params["b"])
	require.Contains(t, params, "c")
	require.Equal(t, "", params["d"])
	require.Len(t, params, 4)
}

func TestCallbackURL(t *testing.T) {
	tests := []struct {
		url      string
		callback string
	}{
		{
			url:      "lnurlp://service.io/pay?x=1",
			callback: "https://service.io/pay?x=1",
		},
		{
			url:      "lnurlw://abc.onion/withdraw",
			callback: "http://abc.onion/withdraw",
		},
		{
			url:      "keyauth://service.io/auth?tag=login",
			callback: "https://service.io/auth?tag=login",
		},
		{
			url:      "https://service.io/pay",
			callback: "https://service.io/pay",
		},
	}

	for _, test := range tests {
		u, err := ParseURL(test.url, nil)
		require.NoError(t, err)

		cb := u.CallbackURL()
		require.Equal(t, test.callback, cb.String())
		require.False(t, cb.IsLUD17())

		// The callback must itself be a valid callback url.
		_, err = ParseCallbackURL(cb.String(), nil)
		require.NoError(t, err)
	}

	_, err := ParseCallbackURL("lnurlc://service.io/channel", nil)
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestURLKindString(t *testing.T) {
	require.Equal(t, "clearnet", ClearnetURL.String())
	require.Equal(t, "onion", OnionURL.String())
	require.Equal(t, "debug", DebugURL.String())
	require.Equal(t, "unknown(9)", URLKind(9).String())
}
