package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/solidgate/pkg/clientip"
)

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []clientip.Option
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr only by default",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			remoteAddr: "10.0.0.1:54321",
			want:       "10.0.0.1",
		},
		{
			name:       "trusted header wins",
			opts:       []clientip.Option{clientip.WithTrustedHeaders("cf-connecting-ip")},
			headers:    map[string]string{"CF-Connecting-IP": "198.51.100.7"},
			remoteAddr: "10.0.0.1:54321",
			want:       "198.51.100.7",
		},
		{
			name:       "first valid forwarded entry",
			opts:       []clientip.Option{clientip.WithTrustedHeaders("X-Forwarded-For")},
			headers:    map[string]string{"X-Forwarded-For": "garbage, 203.0.113.9, 10.0.0.2"},
			remoteAddr: "10.0.0.1:54321",
			want:       "203.0.113.9",
		},
		{
			name:       "header order",
			opts:       []clientip.Option{clientip.WithTrustedHeaders("X-Real-IP", "X-Forwarded-For")},
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "192.0.2.4"},
			remoteAddr: "10.0.0.1:54321",
			want:       "192.0.2.4",
		},
		{
			name:       "invalid header falls back",
			opts:       []clientip.Option{clientip.WithTrustedHeaders("X-Real-IP")},
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "mapped ipv4",
			remoteAddr: "[::ffff:192.0.2.10]:80",
			want:       "192.0.2.10",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.11",
			want:       "192.0.2.11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.New(tt.opts...).IP(r).String())
		})
	}

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "nonsense"
	assert.False(t, clientip.New().IP(r).IsValid())
}

func TestParsePrefixes(t *testing.T) {
	t.Parallel()

	got, err := clientip.ParsePrefixes([]string{"192.0.2.0/24", " 198.51.100.7 ", "", "2001:db8::/32", "10.1.2.3/8"})
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("192.0.2.0/24"),
		netip.MustParsePrefix("198.51.100.7/32"),
		netip.MustParsePrefix("2001:db8::/32"),
		netip.MustParsePrefix("10.0.0.0/8"),
	}, got)

	_, err = clientip.ParsePrefixes([]string{"192.0.2.0/33"})
	assert.ErrorIs(t, err, clientip.ErrInvalidPrefix)

	_, err = clientip.ParsePrefixes([]string{"solidgate.com"})
	assert.ErrorIs(t, err, clientip.ErrInvalidPrefix)
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	prefixes, err := clientip.ParsePrefixes([]string{"192.0.2.0/24"})
	require.NoError(t, err)

	assert.True(t, clientip.Allowed(netip.MustParseAddr("192.0.2.200"), prefixes))
	assert.False(t, clientip.Allowed(netip.MustParseAddr("192.0.3.1"), prefixes))
	assert.False(t, clientip.Allowed(netip.Addr{}, prefixes))
	assert.True(t, clientip.Allowed(netip.Addr{}, nil))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	prefixes, err := clientip.ParsePrefixes([]string{"192.0.2.0/24"})
	require.NoError(t, err)

	var seen netip.Addr
	h := clientip.Middleware(nil, prefixes, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = clientip.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/webhooks", nil)
	r.RemoteAddr = "192.0.2.5:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "192.0.2.5", seen.String())

	r = httptest.NewRequest(http.MethodPost, "/webhooks", nil)
	r.RemoteAddr = "203.0.113.1:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	_, ok := clientip.FromContext(context.Background())
	assert.False(t, ok)

	addr, ok := clientip.FromContext(clientip.WithIP(context.Background(), netip.MustParseAddr("192.0.2.1")))
	assert.True(t, ok)
	assert.Equal(t, "192.0.2.1", addr.String())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	res, allowed, err := clientip.NewFromConfig(clientip.Config{
		AllowedIPs:     []string{"192.0.2.0/24"},
		TrustedHeaders: []string{"X-Real-IP"},
	})
	require.NoError(t, err)
	require.Len(t, allowed, 1)

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("X-Real-IP", "192.0.2.9")
	assert.Equal(t, "192.0.2.9", res.IP(r).String())

	_, _, err = clientip.NewFromConfig(clientip.Config{AllowedIPs: []string{"nope"}})
	assert.ErrorIs(t, err, clientip.ErrInvalidPrefix)
}
