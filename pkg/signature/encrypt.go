package signature

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// KeySize is the AES-256 key length taken from the start of the secret key.
const KeySize = 32

// Encryption selects how form data tokens are produced.
type Encryption int

const (
	// RandomIV prepends a random IV to the ciphertext and keeps base64 padding.
	RandomIV Encryption = iota
	// StaticIV uses the first 16 bytes of the secret key as IV and strips padding.
	StaticIV
)

// String returns the configuration name of the encoding.
func (e Encryption) String() string {
	switch e {
	case RandomIV:
		return "random-iv"
	case StaticIV:
		return "static-iv"
	default:
		return "unknown"
	}
}

func (e Encryption) valid() bool {
	return e == RandomIV || e == StaticIV
}

// ParseEncryption maps a configuration value to an Encryption.
// An empty string selects RandomIV.
func ParseEncryption(s string) (Encryption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random-iv", "random", "a":
		return RandomIV, nil
	case "static-iv", "static", "b":
		return StaticIV, nil
	default:
		return RandomIV, fmt.Errorf("%w: %q", ErrInvalidEncryption, s)
	}
}

// EncryptFormData serializes attributes to JSON and encrypts them into a
// URL-safe token suitable for the form_data query parameter.
func (s *Signer) EncryptFormData(attributes any) (string, error) {
	data, err := marshalAttributes(attributes)
	if err != nil {
		return "", err
	}
	return s.encrypt(data)
}

// DecryptFormData reverses EncryptFormData and returns the JSON document.
func (s *Signer) DecryptFormData(token string) ([]byte, error) {
	key, err := s.cipherKey()
	if err != nil {
		return nil, err
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}

	var iv, ciphertext []byte
	switch s.encryption {
	case StaticIV:
		iv, ciphertext = []byte(s.secretKey[:aes.BlockSize]), raw
	default:
		if len(raw) < aes.BlockSize {
			return nil, fmt.Errorf("%w: token shorter than IV", ErrInvalidCiphertext)
		}
		iv, ciphertext = raw[:aes.BlockSize], raw[aes.BlockSize:]
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a multiple of the block size", ErrInvalidCiphertext)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	out, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return out, nil
}

func (s *Signer) encrypt(plaintext []byte) (string, error) {
	key, err := s.cipherKey()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)

	if s.encryption == StaticIV {
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, []byte(s.secretKey[:aes.BlockSize])).CryptBlocks(out, padded)
		return base64.RawURLEncoding.EncodeToString(out), nil
	}

	// IV travels in front of the ciphertext
	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(s.random, iv); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.URLEncoding.EncodeToString(out), nil
}

// cipherKey truncates the secret to the AES-256 key size. Shorter secrets are
// rejected rather than padded.
func (s *Signer) cipherKey() ([]byte, error) {
	if len(s.secretKey) < KeySize {
		return nil, fmt.Errorf("%w: secret key must be at least %d bytes for form encryption, got %d",
			ErrInvalidCredentials, KeySize, len(s.secretKey))
	}
	return []byte(s.secretKey[:KeySize]), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
