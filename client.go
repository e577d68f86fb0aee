package solidgate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/logger"
	"github.com/dmitrymomot/solidgate/pkg/metrics"
	"github.com/dmitrymomot/solidgate/pkg/ratelimiter"
	"github.com/dmitrymomot/solidgate/pkg/signature"
	"github.com/dmitrymomot/solidgate/pkg/transport"
)

// Client talks to one merchant account. It is safe for concurrent use;
// iterators it returns are not.
type Client struct {
	signer         *signature.Signer
	api            transport.Sender
	reconciliation transport.Sender
	apiURI         string

	opts    *options
	log     *slog.Logger
	metrics *metrics.Collector

	mu      sync.Mutex
	lastErr error
}

// New creates a Client for the given credentials.
func New(merchantID, secretKey string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	signer, err := signature.New(merchantID, secretKey, signature.WithEncryption(o.encryption))
	if err != nil {
		return nil, err
	}

	apiURI := o.apiURI
	api := o.apiSender
	if api == nil {
		topts := o.transportOpts
		if o.breaker != nil {
			topts = append(topts[:len(topts):len(topts)], transport.WithCircuitBreaker(o.breaker))
		}
		t, err := transport.New(o.apiURI, topts...)
		if err != nil {
			return nil, fmt.Errorf("payment API: %w", err)
		}
		api = t
		apiURI = t.BaseURI()
	} else if !strings.HasSuffix(apiURI, "/") {
		apiURI += "/"
	}

	var recon transport.Sender
	if o.reconciliationEnabled {
		recon = o.reconSender
		if recon == nil {
			t, err := transport.New(o.reconciliationURI, o.transportOpts...)
			if err != nil {
				return nil, fmt.Errorf("reconciliation API: %w", err)
			}
			recon = t
		}
	}

	if o.limiter != nil {
		api = ratelimiter.Throttle(api, o.limiter)
		if recon != nil {
			recon = ratelimiter.Throttle(recon, o.limiter)
		}
	}

	log := o.logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("solidgate"), logger.Merchant(merchantID))

	return &Client{
		signer:         signer,
		api:            api,
		reconciliation: recon,
		apiURI:         apiURI,
		opts:           o,
		log:            log,
		metrics:        o.metrics,
	}, nil
}

// MerchantID returns the public merchant identifier.
func (c *Client) MerchantID() string {
	return c.signer.MerchantID()
}

// Signer exposes the request signer, e.g. for verifying webhook signatures.
func (c *Client) Signer() *signature.Signer {
	return c.signer
}

// LastError returns the error of the most recent failed call, or nil if the
// most recent direct call succeeded.
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) setLastError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// Send signs attributes, posts them to op's endpoint and returns the raw
// response body. The error is returned and also recorded in LastError.
func (c *Client) Send(ctx context.Context, op Operation, attributes any) (string, error) {
	ctx, _ = logger.EnsureCallID(ctx)
	log := c.log.With(logger.Operation(op.Name), logger.Path(op.Path))

	start := time.Now()
	body, err := c.send(ctx, op, attributes)
	d := time.Since(start)

	c.metrics.ObserveCall(op.Name, d, err)
	c.setLastError(err)

	if err != nil {
		log.ErrorContext(ctx, "solidgate call failed", logger.Duration(d), logger.Error(err))
		return "", err
	}
	log.DebugContext(ctx, "solidgate call completed", logger.Duration(d))
	return string(body), nil
}

func (c *Client) send(ctx context.Context, op Operation, attributes any) ([]byte, error) {
	sender := c.api
	if op.API == ReconciliationAPI {
		if c.reconciliation == nil {
			return nil, ErrReconciliationDisabled
		}
		sender = c.reconciliation
	}

	req, err := c.signer.BuildRequest(op.Path, attributes)
	if err != nil {
		return nil, err
	}
	return sender.Send(ctx, req)
}

func (c *Client) call(ctx context.Context, op Operation, attributes any) string {
	body, _ := c.Send(ctx, op, attributes)
	return body
}
