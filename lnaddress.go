package lnurl

import (
	"fmt"
	"regexp"
	"strings"
)

// lnAddressRegex follows LUD-16: a lowercase user name and a domain with a
// top-level domain.
var lnAddressRegex = regexp.MustCompile(
	`^[a-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,63}$`,
)

// LnAddress is a lightning address, user@domain (LUD-16).
type LnAddress struct {
	User   string
	Domain string

	// URL is where the pay request of the address is fetched from.
	URL *URL
}

// ParseLnAddress parses a lightning address. A nil cfg uses the default
// configuration.
func ParseLnAddress(address string, cfg *Config) (*LnAddress, error) {
	address = clean(address)

	if !lnAddressRegex.MatchString(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLnAddress, address)
	}

	i := strings.LastIndexByte(address, '@')
	user, domain := address[:i], address[i+1:]

	scheme := schemeHTTPS
	if strings.HasSuffix(strings.ToLower(domain), ".onion") {
		scheme = schemeHTTP
	}

	u, err := ParseCallbackURL(
		scheme+"://"+domain+"/.well-known/lnurlp/"+user, cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLnAddress, err)
	}

	return &LnAddress{
		User:   user,
		Domain: domain,
		URL:    u,
	}, nil
}

// String returns the address as user@domain.
func (a *LnAddress) String() string {
	return a.User + "@" + a.Domain
}
