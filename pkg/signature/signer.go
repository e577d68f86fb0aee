package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

// Signer produces signatures and encrypted form tokens for one merchant.
// Zero value is not usable; use New to create instances.
type Signer struct {
	merchantID string
	secretKey  string
	encryption Encryption
	random     io.Reader
}

// Option configures a Signer.
type Option func(*Signer)

// WithEncryption selects the form data encoding. Default is RandomIV.
func WithEncryption(e Encryption) Option {
	return func(s *Signer) {
		if e.valid() {
			s.encryption = e
		}
	}
}

// WithRandReader replaces crypto/rand as the IV source.
// Only useful in tests that need reproducible RandomIV tokens.
func WithRandReader(r io.Reader) Option {
	return func(s *Signer) {
		if r != nil {
			s.random = r
		}
	}
}

// New creates a Signer. Both the merchant identifier and the secret key are
// required; the secret key length is only checked when form data is encrypted,
// since HMAC signing accepts keys of any size.
func New(merchantID, secretKey string, opts ...Option) (*Signer, error) {
	if merchantID == "" {
		return nil, fmt.Errorf("%w: merchant id is required", ErrInvalidCredentials)
	}
	if secretKey == "" {
		return nil, fmt.Errorf("%w: secret key is required", ErrInvalidCredentials)
	}

	s := &Signer{
		merchantID: merchantID,
		secretKey:  secretKey,
		encryption: RandomIV,
		random:     rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MerchantID returns the public merchant identifier.
func (s *Signer) MerchantID() string {
	return s.merchantID
}

// Encryption returns the configured form data encoding.
func (s *Signer) Encryption() Encryption {
	return s.encryption
}

// Sign returns the request signature for payload.
// The merchant id wraps the payload on both sides before hashing.
func (s *Signer) Sign(payload []byte) string {
	return base64.StdEncoding.EncodeToString(s.digest(payload))
}

// Verify reports whether signature matches payload using constant-time comparison.
func (s *Signer) Verify(payload []byte, signature string) bool {
	expected, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, s.digest(payload))
}

// digest returns the lowercase hex form of the MAC as ASCII bytes.
func (s *Signer) digest(payload []byte) []byte {
	mac := hmac.New(sha512.New, []byte(s.secretKey))
	mac.Write([]byte(s.merchantID))
	mac.Write(payload)
	mac.Write([]byte(s.merchantID))

	sum := mac.Sum(nil)
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}
