package webhook

import "errors"

var (
	ErrMissingHeaders   = errors.New("webhook: merchant or signature header is missing")
	ErrMerchantMismatch = errors.New("webhook: merchant does not match")
	ErrInvalidSignature = errors.New("webhook: invalid signature")
	ErrPayloadTooLarge  = errors.New("webhook: payload too large")
	ErrInvalidPayload   = errors.New("webhook: invalid payload")
)

// IsVerificationError reports whether err means the request was not signed
// by the expected merchant.
func IsVerificationError(err error) bool {
	return errors.Is(err, ErrMissingHeaders) ||
		errors.Is(err, ErrMerchantMismatch) ||
		errors.Is(err, ErrInvalidSignature)
}
