package signature_test

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/solidgate/pkg/signature"
)

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	s, err := signature.New("api_pk_1", testSecret)
	require.NoError(t, err)

	t.Run("headers and body", func(t *testing.T) {
		t.Parallel()
		req, err := s.BuildRequest("charge", map[string]any{"order_id": "o-1", "amount": 100})
		require.NoError(t, err)

		assert.Equal(t, "charge", req.Path)
		assert.JSONEq(t, `{"order_id":"o-1","amount":100}`, string(req.Body))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.Equal(t, "api_pk_1", req.Header.Get(signature.HeaderMerchant))
		assert.Equal(t, expectedSignature("api_pk_1", testSecret, req.Body), req.Header.Get(signature.HeaderSignature))
	})

	t.Run("nil attributes become empty object", func(t *testing.T) {
		t.Parallel()
		req, err := s.BuildRequest("status", nil)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(req.Body))

		var typedNil map[string]any
		req2, err := s.BuildRequest("status", typedNil)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(req2.Body))
		assert.Equal(t, req.Header.Get(signature.HeaderSignature), req2.Header.Get(signature.HeaderSignature))
	})

	t.Run("html is not escaped", func(t *testing.T) {
		t.Parallel()
		req, err := s.BuildRequest("charge", map[string]any{"description": "a<b>&c"})
		require.NoError(t, err)
		assert.Equal(t, `{"description":"a<b>&c"}`, string(req.Body))
	})

	t.Run("invalid attributes", func(t *testing.T) {
		t.Parallel()
		_, err := s.BuildRequest("charge", map[string]any{"f": func() {}})
		assert.ErrorIs(t, err, signature.ErrInvalidPayload)
	})
}

func TestBuildFormURL(t *testing.T) {
	t.Parallel()

	const pattern = "https://pay.example.com/api/v1/form/resign?merchant=%s&form_data=%s&signature=%s"

	for _, enc := range []signature.Encryption{signature.RandomIV, signature.StaticIV} {
		t.Run(enc.String(), func(t *testing.T) {
			t.Parallel()
			s, err := signature.New("api_pk_1", testSecret, signature.WithEncryption(enc))
			require.NoError(t, err)

			raw, err := s.BuildFormURL(map[string]any{"order_id": "o-1"}, pattern)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(raw, "https://pay.example.com/api/v1/form/resign?merchant=api_pk_1&form_data="))

			// parameter order is fixed
			query := raw[strings.Index(raw, "?")+1:]
			parts := strings.Split(query, "&")
			require.Len(t, parts, 3)
			assert.True(t, strings.HasPrefix(parts[0], "merchant="))
			assert.True(t, strings.HasPrefix(parts[1], "form_data="))
			assert.True(t, strings.HasPrefix(parts[2], "signature="))

			token := strings.TrimPrefix(parts[1], "form_data=")
			sig := strings.TrimPrefix(parts[2], "signature=")

			// signature covers the token, not the attributes
			assert.Equal(t, s.Sign([]byte(token)), sig)
			assert.Equal(t, fmt.Sprintf(pattern, "api_pk_1", token, sig), raw)

			plain, err := s.DecryptFormData(token)
			require.NoError(t, err)
			assert.JSONEq(t, `{"order_id":"o-1"}`, string(plain))
		})
	}

	t.Run("pattern must have three verbs", func(t *testing.T) {
		t.Parallel()
		s, err := signature.New("api_pk_1", testSecret)
		require.NoError(t, err)

		for _, p := range []string{
			"https://x/form?merchant=%s&form_data=%s",
			"https://x/form?merchant=%s&form_data=%s&signature=%s&extra=%s",
			"https://x/form?merchant=%s&form_data=%d&signature=%s",
		} {
			_, err := s.BuildFormURL(nil, p)
			assert.ErrorIs(t, err, signature.ErrInvalidPattern, p)
		}
	})

	t.Run("query survives url parsing", func(t *testing.T) {
		t.Parallel()
		s, err := signature.New("api_pk_1", testSecret)
		require.NoError(t, err)

		raw, err := s.BuildFormURL(map[string]any{"amount": 1}, pattern)
		require.NoError(t, err)
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "api_pk_1", u.Query().Get("merchant"))
		assert.NotEmpty(t, u.Query().Get("form_data"))
	})
}
