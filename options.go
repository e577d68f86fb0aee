package solidgate

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/metrics"
	"github.com/dmitrymomot/solidgate/pkg/ratelimiter"
	"github.com/dmitrymomot/solidgate/pkg/reconcile"
	"github.com/dmitrymomot/solidgate/pkg/signature"
	"github.com/dmitrymomot/solidgate/pkg/transport"
)

type options struct {
	apiURI                string
	reconciliationURI     string
	encryption            signature.Encryption
	reconciliationEnabled bool

	maxAttempts int
	maxPages    int
	backoff     reconcile.Backoff

	transportOpts []transport.Option
	breaker       *transport.CircuitBreaker
	limiter       *ratelimiter.Bucket
	apiSender     transport.Sender
	reconSender   transport.Sender

	logger  *slog.Logger
	metrics *metrics.Collector
}

func defaultOptions() *options {
	return &options{
		apiURI:                DefaultAPIURI,
		reconciliationURI:     DefaultReconciliationURI,
		encryption:            signature.RandomIV,
		reconciliationEnabled: true,
		maxAttempts:           reconcile.DefaultMaxAttempts,
	}
}

// Option configures a Client.
type Option func(*options)

// WithAPIURI overrides the payment API base URI.
func WithAPIURI(uri string) Option {
	return func(o *options) {
		if uri != "" {
			o.apiURI = uri
		}
	}
}

// WithReconciliationURI overrides the reconciliation API base URI.
func WithReconciliationURI(uri string) Option {
	return func(o *options) {
		if uri != "" {
			o.reconciliationURI = uri
		}
	}
}

// WithReconciliation enables or disables the reconciliation API. A disabled
// client fails feed and antifraud calls with ErrReconciliationDisabled.
func WithReconciliation(enabled bool) Option {
	return func(o *options) {
		o.reconciliationEnabled = enabled
	}
}

// WithFormEncryption selects the form_data token encoding.
func WithFormEncryption(e signature.Encryption) Option {
	return func(o *options) {
		o.encryption = e
	}
}

// WithMaxAttempts sets the per-page attempt ceiling for reconciliation feeds.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxAttempts = n
		}
	}
}

// WithMaxPages caps the number of pages a feed may fetch. Zero means unlimited.
func WithMaxPages(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxPages = n
		}
	}
}

// WithBackoff sets the delay between failed page attempts.
func WithBackoff(b reconcile.Backoff) Option {
	return func(o *options) {
		o.backoff = b
	}
}

// WithHTTPClient sets the http.Client used by both APIs.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.transportOpts = append(o.transportOpts, transport.WithHTTPClient(c))
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.transportOpts = append(o.transportOpts, transport.WithTimeout(d))
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.transportOpts = append(o.transportOpts, transport.WithUserAgent(ua))
	}
}

// WithCircuitBreaker guards the payment API with cb.
// The reconciliation API relies on page retries instead.
func WithCircuitBreaker(cb *transport.CircuitBreaker) Option {
	return func(o *options) {
		o.breaker = cb
	}
}

// WithRateLimiter makes every request to either API wait for a token from b,
// keyed by merchant id.
func WithRateLimiter(b *ratelimiter.Bucket) Option {
	return func(o *options) {
		o.limiter = b
	}
}

// WithSender replaces the payment API transport.
func WithSender(s transport.Sender) Option {
	return func(o *options) {
		o.apiSender = s
	}
}

// WithReconciliationSender replaces the reconciliation API transport.
func WithReconciliationSender(s transport.Sender) Option {
	return func(o *options) {
		o.reconSender = s
	}
}

// WithLogger sets the logger. The client logs nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records call and page metrics into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}
