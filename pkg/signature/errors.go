package signature

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid merchant credentials")
	ErrInvalidPayload     = errors.New("attributes cannot be encoded as JSON")
	ErrInvalidPattern     = errors.New("form URL pattern must contain exactly three %s verbs")
	ErrInvalidEncryption  = errors.New("unknown form encryption mode")

	ErrEncryptionFailed  = errors.New("form data encryption failed")
	ErrDecryptionFailed  = errors.New("form data decryption failed")
	ErrInvalidCiphertext = errors.New("invalid form data token")
)
