package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Resolver extracts the client address from a request.
type Resolver struct {
	headers []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTrustedHeaders makes the resolver consult these headers, in order,
// before RemoteAddr. For list headers such as X-Forwarded-For the first
// valid address wins.
func WithTrustedHeaders(headers ...string) Option {
	return func(r *Resolver) {
		for _, h := range headers {
			if h = strings.TrimSpace(h); h != "" {
				r.headers = append(r.headers, http.CanonicalHeaderKey(h))
			}
		}
	}
}

// New creates a Resolver. Without options only RemoteAddr is used.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IP returns the client address, or the zero Addr if none is valid.
func (res *Resolver) IP(r *http.Request) netip.Addr {
	for _, h := range res.headers {
		for v := range strings.SplitSeq(r.Header.Get(h), ",") {
			if addr, ok := parseAddr(v); ok {
				return addr
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, _ := parseAddr(host)
	return addr
}

// parseAddr accepts a bare address and unmaps IPv4-in-IPv6 so allow-list
// prefixes written as IPv4 match.
func parseAddr(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap().WithZone(""), true
}
