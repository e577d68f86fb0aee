package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/signature"
)

// Sender posts a signed request and returns the raw response body.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, req *signature.SignedRequest) ([]byte, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, req *signature.SignedRequest) ([]byte, error)

// Send calls f(ctx, req).
func (f SenderFunc) Send(ctx context.Context, req *signature.SignedRequest) ([]byte, error) {
	return f(ctx, req)
}

// HTTP is the net/http Sender bound to one base URI.
// Zero value is not usable; use New to create instances.
type HTTP struct {
	base *url.URL
	opts *options
}

// New creates an HTTP transport. Request paths are resolved relative to
// baseURI, so "charge" against "https://pay.solidgate.com/api/v1/" posts to
// https://pay.solidgate.com/api/v1/charge.
func New(baseURI string, opts ...Option) (*HTTP, error) {
	if baseURI == "" {
		return nil, fmt.Errorf("%w: base URI is required", ErrInvalidBaseURI)
	}

	u, err := url.Parse(baseURI)
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURI, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidBaseURI)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURI)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &HTTP{base: u, opts: o}, nil
}

// BaseURI returns the normalized base URI.
func (t *HTTP) BaseURI() string {
	return t.base.String()
}

// Send implements Sender.
func (t *HTTP) Send(ctx context.Context, req *signature.SignedRequest) ([]byte, error) {
	if req == nil {
		return nil, &Error{Err: fmt.Errorf("%w: nil request", ErrInvalidRequest)}
	}

	ref, err := url.Parse(req.Path)
	if err != nil {
		return nil, &Error{Path: req.Path, Err: errors.Join(ErrInvalidRequest, err)}
	}
	endpoint := t.base.ResolveReference(ref)

	cb := t.opts.breaker
	if cb != nil && !cb.Allow() {
		return nil, &Error{Path: req.Path, Err: ErrCircuitOpen}
	}

	body, status, err := t.do(ctx, endpoint.String(), req)

	if cb != nil {
		if isEndpointFailure(status, err) {
			cb.RecordFailure()
		} else {
			cb.RecordSuccess()
		}
	}

	if err != nil {
		return nil, &Error{Path: req.Path, StatusCode: status, Body: snippet(body), Err: err}
	}
	return body, nil
}

func (t *HTTP) do(ctx context.Context, endpoint string, req *signature.SignedRequest) ([]byte, int, error) {
	reqCtx := ctx
	if t.opts.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, t.opts.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(req.Body))
	if err != nil {
		return nil, 0, errors.Join(ErrInvalidRequest, err)
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	httpReq.Header.Set("User-Agent", t.opts.userAgent)

	resp, err := t.opts.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, 0, errors.Join(ErrTimeout, err)
		}
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.opts.maxResponseSize+1))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if int64(len(body)) > t.opts.maxResponseSize {
		return nil, resp.StatusCode, fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, t.opts.maxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.StatusCode, ErrUnexpectedStatus
	}
	return body, resp.StatusCode, nil
}

// isEndpointFailure decides what counts against the circuit breaker.
// Client errors other than 408 and 429 mean the endpoint is healthy.
func isEndpointFailure(status int, err error) bool {
	if err == nil {
		return false
	}
	if status >= 400 && status < 500 {
		return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
	}
	return true
}

// snippet keeps error messages single-line and short.
func snippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
