package signature_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/solidgate/pkg/signature"
)

func decryptWithIVPrefix(t *testing.T, key []byte, token string) []byte {
	t.Helper()

	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	require.Greater(t, len(raw), aes.BlockSize)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	iv, ct := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	pad := int(plain[len(plain)-1])
	return plain[:len(plain)-pad]
}

func TestEncryptFormData_RandomIV(t *testing.T) {
	t.Parallel()

	s, err := signature.New("api_pk_1", testSecret)
	require.NoError(t, err)

	attrs := map[string]any{
		"order_id":          "order-123",
		"amount":            1020,
		"currency":          "USD",
		"order_description": "Premium <plan> & more",
	}

	t.Run("round trips with IV from the first block", func(t *testing.T) {
		t.Parallel()
		token, err := s.EncryptFormData(attrs)
		require.NoError(t, err)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")

		plain := decryptWithIVPrefix(t, []byte(testSecret[:signature.KeySize]), token)

		want, err := json.Marshal(attrs)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(plain))
		assert.Contains(t, string(plain), "<plan> & more")
	})

	t.Run("random IV yields different tokens", func(t *testing.T) {
		t.Parallel()
		a, err := s.EncryptFormData(attrs)
		require.NoError(t, err)
		b, err := s.EncryptFormData(attrs)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("fixed reader is reproducible", func(t *testing.T) {
		t.Parallel()
		iv := bytes.Repeat([]byte{7}, 64)
		a, err := signature.New("api_pk_1", testSecret, signature.WithRandReader(bytes.NewReader(iv)))
		require.NoError(t, err)
		b, err := signature.New("api_pk_1", testSecret, signature.WithRandReader(bytes.NewReader(iv)))
		require.NoError(t, err)

		ta, err := a.EncryptFormData(attrs)
		require.NoError(t, err)
		tb, err := b.EncryptFormData(attrs)
		require.NoError(t, err)
		assert.Equal(t, ta, tb)
	})

	t.Run("decrypt reverses encrypt", func(t *testing.T) {
		t.Parallel()
		token, err := s.EncryptFormData(attrs)
		require.NoError(t, err)

		plain, err := s.DecryptFormData(token)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(plain, &got))
		assert.Equal(t, "order-123", got["order_id"])
	})
}

func TestEncryptFormData_StaticIV(t *testing.T) {
	t.Parallel()

	s, err := signature.New("api_pk_1", testSecret, signature.WithEncryption(signature.StaticIV))
	require.NoError(t, err)
	require.Equal(t, signature.StaticIV, s.Encryption())

	attrs := map[string]any{"order_id": "order-123", "amount": 5}

	t.Run("deterministic without padding", func(t *testing.T) {
		t.Parallel()
		a, err := s.EncryptFormData(attrs)
		require.NoError(t, err)
		b, err := s.EncryptFormData(attrs)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.NotContains(t, a, "=")
	})

	t.Run("uses secret prefix as IV", func(t *testing.T) {
		t.Parallel()
		token, err := s.EncryptFormData(attrs)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)

		block, err := aes.NewCipher([]byte(testSecret[:signature.KeySize]))
		require.NoError(t, err)
		plain := make([]byte, len(raw))
		cipher.NewCBCDecrypter(block, []byte(testSecret[:aes.BlockSize])).CryptBlocks(plain, raw)
		plain = plain[:len(plain)-int(plain[len(plain)-1])]

		assert.JSONEq(t, `{"order_id":"order-123","amount":5}`, string(plain))
	})

	t.Run("decrypt reverses encrypt", func(t *testing.T) {
		t.Parallel()
		token, err := s.EncryptFormData(attrs)
		require.NoError(t, err)

		plain, err := s.DecryptFormData(token)
		require.NoError(t, err)
		assert.JSONEq(t, `{"order_id":"order-123","amount":5}`, string(plain))
	})
}

func TestEncryptFormData_Errors(t *testing.T) {
	t.Parallel()

	t.Run("secret shorter than key size", func(t *testing.T) {
		t.Parallel()
		s, err := signature.New("api_pk_1", strings.Repeat("k", signature.KeySize-1))
		require.NoError(t, err)

		_, err = s.EncryptFormData(map[string]any{"a": 1})
		assert.ErrorIs(t, err, signature.ErrInvalidCredentials)
	})

	t.Run("exactly key size is enough", func(t *testing.T) {
		t.Parallel()
		s, err := signature.New("api_pk_1", strings.Repeat("k", signature.KeySize))
		require.NoError(t, err)

		_, err = s.EncryptFormData(map[string]any{"a": 1})
		assert.NoError(t, err)
	})

	t.Run("unencodable attributes", func(t *testing.T) {
		t.Parallel()
		s, err := signature.New("api_pk_1", testSecret)
		require.NoError(t, err)

		_, err = s.EncryptFormData(map[string]any{"ch": make(chan int)})
		assert.ErrorIs(t, err, signature.ErrInvalidPayload)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		s, err := signature.New("api_pk_1", testSecret)
		require.NoError(t, err)

		_, err = s.DecryptFormData("!!!")
		assert.ErrorIs(t, err, signature.ErrInvalidCiphertext)

		_, err = s.DecryptFormData(base64.URLEncoding.EncodeToString([]byte("short")))
		assert.ErrorIs(t, err, signature.ErrInvalidCiphertext)
	})
}

func TestParseEncryption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    signature.Encryption
		wantErr bool
	}{
		{"", signature.RandomIV, false},
		{"random-iv", signature.RandomIV, false},
		{"STATIC-IV", signature.StaticIV, false},
		{"b", signature.StaticIV, false},
		{"gcm", signature.RandomIV, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := signature.ParseEncryption(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, signature.ErrInvalidEncryption)
				assert.NotErrorIs(t, err, signature.ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, "unknown", got.String())
		})
	}
}
