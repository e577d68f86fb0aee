package transport

import (
	"net/http"
	"time"
)

type options struct {
	client          *http.Client
	timeout         time.Duration
	userAgent       string
	maxResponseSize int64
	breaker         *CircuitBreaker
}

func defaultOptions() *options {
	return &options{
		timeout:         30 * time.Second,
		userAgent:       "solidgate-go/1.0",
		maxResponseSize: 64 << 20,
	}
}

// Option configures an HTTP transport.
type Option func(*options)

// WithHTTPClient replaces the pooled default client.
// Useful for custom TLS settings, proxies or tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithTimeout sets the per-request timeout. Default is 30 seconds; zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithMaxResponseSize caps how many bytes of a response body are read.
// Default is 64 MiB, enough for large reconciliation pages.
func WithMaxResponseSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxResponseSize = n
		}
	}
}

// WithCircuitBreaker guards the endpoint. Share one breaker per base URI.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(o *options) {
		o.breaker = cb
	}
}
