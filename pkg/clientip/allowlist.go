package clientip

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"

	"github.com/dmitrymomot/solidgate/pkg/logger"
)

// ErrInvalidPrefix is returned by ParsePrefixes for entries that are neither
// an address nor a CIDR prefix.
var ErrInvalidPrefix = errors.New("clientip: invalid address or prefix")

// ParsePrefixes parses CIDR prefixes and bare addresses. Blank entries are
// skipped; a bare address becomes a single-host prefix.
func ParsePrefixes(list []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, "/") {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, s)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, ok := parseAddr(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, s)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// Allowed reports whether addr is inside one of the prefixes. An empty
// list allows everything.
func Allowed(addr netip.Addr, prefixes []netip.Prefix) bool {
	if len(prefixes) == 0 {
		return true
	}
	if !addr.IsValid() {
		return false
	}
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Middleware stores the resolved address in the request context and answers
// 403 to addresses outside allowed.
func Middleware(res *Resolver, allowed []netip.Prefix, log *slog.Logger) func(http.Handler) http.Handler {
	if res == nil {
		res = New()
	}
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := res.IP(r)
			if !Allowed(addr, allowed) {
				log.WarnContext(r.Context(), "request from disallowed address",
					slog.String("client_ip", addr.String()),
					logger.Path(r.URL.Path),
				)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIP(r.Context(), addr)))
		})
	}
}
