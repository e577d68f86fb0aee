package solidgate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/solidgate"
	"github.com/dmitrymomot/solidgate/pkg/config"
	"github.com/dmitrymomot/solidgate/pkg/signature"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := solidgate.LoadConfig(config.WithEnvironment(map[string]string{
			"SOLIDGATE_MERCHANT_ID": merchantID,
			"SOLIDGATE_SECRET_KEY":  secretKey,
		}))
		require.NoError(t, err)

		assert.Equal(t, merchantID, cfg.MerchantID)
		assert.Equal(t, secretKey, cfg.SecretKey)
		assert.Equal(t, solidgate.DefaultAPIURI, cfg.APIURI)
		assert.Equal(t, solidgate.DefaultReconciliationURI, cfg.ReconciliationURI)
		assert.Equal(t, "random-iv", cfg.FormEncryption)
		assert.True(t, cfg.ReconciliationEnabled)
		assert.Equal(t, 3, cfg.ReconciliationMaxAttempts)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		cfg, err := solidgate.LoadConfig(config.WithEnvironment(map[string]string{
			"SOLIDGATE_MERCHANT_ID":                 merchantID,
			"SOLIDGATE_SECRET_KEY":                  secretKey,
			"SOLIDGATE_API_URI":                     "https://sandbox.example.com/api/v1/",
			"SOLIDGATE_FORM_ENCRYPTION":             "static-iv",
			"SOLIDGATE_RECONCILIATION_ENABLED":      "false",
			"SOLIDGATE_RECONCILIATION_MAX_ATTEMPTS": "5",
			"SOLIDGATE_REQUEST_TIMEOUT":             "5s",
		}))
		require.NoError(t, err)

		assert.Equal(t, "https://sandbox.example.com/api/v1/", cfg.APIURI)
		assert.Equal(t, "static-iv", cfg.FormEncryption)
		assert.False(t, cfg.ReconciliationEnabled)
		assert.Equal(t, 5, cfg.ReconciliationMaxAttempts)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		_, err := solidgate.LoadConfig(config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("builds client", func(t *testing.T) {
		t.Parallel()

		c, err := solidgate.NewFromConfig(solidgate.Config{
			MerchantID:     merchantID,
			SecretKey:      secretKey,
			FormEncryption: "static-iv",
		})
		require.NoError(t, err)
		assert.Equal(t, signature.StaticIV, c.Signer().Encryption())
	})

	t.Run("invalid encryption", func(t *testing.T) {
		t.Parallel()

		_, err := solidgate.NewFromConfig(solidgate.Config{
			MerchantID:     merchantID,
			SecretKey:      secretKey,
			FormEncryption: "rot13",
		})
		assert.ErrorIs(t, err, solidgate.ErrInvalidConfig)
		assert.ErrorIs(t, err, signature.ErrInvalidEncryption)
		assert.NotErrorIs(t, err, solidgate.ErrInvalidCredentials)
	})

	t.Run("explicit options win", func(t *testing.T) {
		t.Parallel()

		c, err := solidgate.NewFromConfig(solidgate.Config{
			MerchantID:     merchantID,
			SecretKey:      secretKey,
			FormEncryption: "static-iv",
		}, solidgate.WithFormEncryption(signature.RandomIV))
		require.NoError(t, err)
		assert.Equal(t, signature.RandomIV, c.Signer().Encryption())
	})
}
