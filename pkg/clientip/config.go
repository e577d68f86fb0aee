package clientip

import "net/netip"

// Config restricts webhook sources.
type Config struct {
	AllowedIPs     []string `env:"SOLIDGATE_WEBHOOK_ALLOWED_IPS" envSeparator:","`
	TrustedHeaders []string `env:"SOLIDGATE_WEBHOOK_TRUSTED_HEADERS" envSeparator:","`
}

// NewFromConfig builds the resolver and parsed allow-list from cfg.
func NewFromConfig(cfg Config) (*Resolver, []netip.Prefix, error) {
	allowed, err := ParsePrefixes(cfg.AllowedIPs)
	if err != nil {
		return nil, nil, err
	}
	return New(WithTrustedHeaders(cfg.TrustedHeaders...)), allowed, nil
}
