package lnurl

// Lnurl is a validated LNURL: a bech32 string and the URL it encodes. URLs
// using a LUD-17 scheme have no bech32 form.
type Lnurl struct {
	bech32 string
	url    *URL
}

// Bech32 returns the bech32 form, or an empty string for LUD-17 URLs.
func (l *Lnurl) Bech32() string {
	return l.bech32
}

// URL returns the decoded URL.
func (l *Lnurl) URL() *URL {
	return l.url
}

// String returns the bech32 form when there is one, the URL otherwise.
func (l *Lnurl) String() string {
	if l.bech32 != "" {
		return l.bech32
	}

	return l.url.String()
}

// CallbackURL returns the URL a wallet should fetch.
func (l *Lnurl) CallbackURL() *URL {
	return l.url.CallbackURL()
}

// IsLUD17 reports whether the LNURL was given as a LUD-17 raw URL.
func (l *Lnurl) IsLUD17() bool {
	return l.url.IsLUD17()
}

// IsLogin reports whether the URL is a LUD-04 auth URL, which is resolved
// without a request.
func (l *Lnurl) IsLogin() bool {
	return l.url.QueryParams()["tag"] == string(TagLogin)
}

// IsFastWithdraw reports whether the URL carries a full LUD-08 fast
// withdraw request in its query. Blank values count as missing.
func (l *Lnurl) IsFastWithdraw() bool {
	q := l.url.QueryParams()
	if q["tag"] != string(TagWithdrawRequest) {
		return false
	}

	for _, key := range []string{
		"k1", "minWithdrawable", "maxWithdrawable",
		"defaultDescription", "callback",
	} {
		if q[key] == "" {
			return false
		}
	}

	return true
}
