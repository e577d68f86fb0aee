// Package transport sends signed SolidGate requests over HTTP.
//
// The core of the SDK only needs one capability from the network: post a
// signed request and get back either the raw response body or an error. That
// capability is the Sender interface. HTTP is the default implementation; it
// resolves request paths against a base URI, reuses pooled connections,
// applies a per-request timeout and can be guarded by a CircuitBreaker.
//
// Response status codes are not interpreted beyond success/failure: any
// non-2xx response is a transport failure, mirroring HTTP clients that raise
// on error statuses. Bodies of successful responses are returned untouched.
//
// # Usage
//
//	api, err := transport.New("https://pay.solidgate.com/api/v1/",
//	    transport.WithTimeout(30*time.Second),
//	    transport.WithCircuitBreaker(transport.NewCircuitBreaker(5, 2, 30*time.Second)),
//	)
//	body, err := api.Send(ctx, signedRequest)
//	if transport.IsTransportError(err) {
//	    // network failure, timeout, circuit open or HTTP error status
//	}
//
// Failures are returned as *Error, which matches ErrTransport with errors.Is
// and carries the request path, HTTP status and a sanitized body snippet.
package transport
