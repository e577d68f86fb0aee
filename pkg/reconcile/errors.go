package reconcile

import "errors"

var (
	ErrMalformedResponse = errors.New("malformed reconciliation response")
	ErrRetryExhausted    = errors.New("reconciliation retry attempts exhausted")
	ErrPageLimit         = errors.New("reconciliation page limit reached")
)

// IsRetryExhausted reports whether a feed stopped at the attempt ceiling.
func IsRetryExhausted(err error) bool {
	return errors.Is(err, ErrRetryExhausted)
}

// IsMalformedResponse reports whether err stems from an invalid page body.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
