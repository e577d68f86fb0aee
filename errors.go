package solidgate

import (
	"errors"

	"github.com/dmitrymomot/solidgate/pkg/reconcile"
	"github.com/dmitrymomot/solidgate/pkg/signature"
	"github.com/dmitrymomot/solidgate/pkg/transport"
)

var (
	ErrReconciliationDisabled = errors.New("solidgate: reconciliation API is disabled")
	ErrUnknownFeed            = errors.New("solidgate: unknown reconciliation feed")
	ErrUnknownOperation       = errors.New("solidgate: unknown operation")
	ErrInvalidConfig          = errors.New("solidgate: invalid configuration")
)

// Re-exported so callers can match errors without importing subpackages.
var (
	ErrInvalidCredentials = signature.ErrInvalidCredentials
	ErrInvalidPayload     = signature.ErrInvalidPayload
	ErrInvalidEncryption  = signature.ErrInvalidEncryption
	ErrTransport          = transport.ErrTransport
	ErrCircuitOpen        = transport.ErrCircuitOpen
	ErrMalformedResponse  = reconcile.ErrMalformedResponse
	ErrRetryExhausted     = reconcile.ErrRetryExhausted
	ErrPageLimit          = reconcile.ErrPageLimit
)

// TransportError carries the path, HTTP status and a body snippet of a failed call.
type TransportError = transport.Error

// IsTransportError reports whether err came from the HTTP transport.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}
