package clientip

import (
	"context"
	"net/netip"
)

type contextKey struct{}

// WithIP stores the client address in ctx.
func WithIP(ctx context.Context, addr netip.Addr) context.Context {
	return context.WithValue(ctx, contextKey{}, addr)
}

// FromContext returns the address stored by Middleware.
func FromContext(ctx context.Context) (netip.Addr, bool) {
	addr, ok := ctx.Value(contextKey{}).(netip.Addr)
	return addr, ok && addr.IsValid()
}
