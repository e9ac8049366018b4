package lnurl

// Config holds the knobs that change how URLs are validated.
type Config struct {
	// StrictRFC3986 rejects URLs holding characters outside the RFC 3986
	// unreserved and reserved sets. Many real services send non
	// conformant URLs, so it is off by default.
	StrictRFC3986 bool
}

// DefaultConfig returns the lenient default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

func configOrDefault(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}

	return cfg
}
