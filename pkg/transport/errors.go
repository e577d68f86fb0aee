package transport

import (
	"errors"
	"fmt"
)

var (
	ErrTransport        = errors.New("transport failure")
	ErrInvalidBaseURI   = errors.New("invalid base URI")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrTimeout          = errors.New("request timeout")
	ErrCircuitOpen      = errors.New("circuit breaker is open")
	ErrResponseTooLarge = errors.New("response body too large")
)

// Error describes a failed call. It matches ErrTransport and the wrapped cause.
type Error struct {
	Path       string
	StatusCode int    // zero when no response was received
	Body       string // sanitized and truncated response body
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("transport: POST %s", e.Path)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// IsTransportError reports whether err came from a Sender.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsCircuitOpen reports whether the call was rejected by a circuit breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// StatusCode extracts the HTTP status from a transport error, or 0.
func StatusCode(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
