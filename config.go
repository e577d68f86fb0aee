package solidgate

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/config"
	"github.com/dmitrymomot/solidgate/pkg/ratelimiter"
	"github.com/dmitrymomot/solidgate/pkg/signature"
)

// EnvPrefix is prepended to every Config variable name by LoadConfig.
const EnvPrefix = "SOLIDGATE_"

// Default endpoints.
const (
	DefaultAPIURI            = "https://pay.solidgate.com/api/v1/"
	DefaultReconciliationURI = "https://reports.solidgate.com/"
)

// Config holds client settings, usually read from SOLIDGATE_* variables.
type Config struct {
	MerchantID                string        `env:"MERCHANT_ID,required"`
	SecretKey                 string        `env:"SECRET_KEY,required"`
	APIURI                    string        `env:"API_URI" envDefault:"https://pay.solidgate.com/api/v1/"`
	ReconciliationURI         string        `env:"RECONCILIATION_URI" envDefault:"https://reports.solidgate.com/"`
	FormEncryption            string        `env:"FORM_ENCRYPTION" envDefault:"random-iv"`
	ReconciliationEnabled     bool          `env:"RECONCILIATION_ENABLED" envDefault:"true"`
	ReconciliationMaxAttempts int           `env:"RECONCILIATION_MAX_ATTEMPTS" envDefault:"3"`
	RequestTimeout            time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RateLimit                 int           `env:"RATE_LIMIT" envDefault:"0"` // requests per second, 0 disables throttling
}

// LoadConfig reads Config from the environment and optional .env files.
// The SOLIDGATE_ prefix is applied unless opts override it.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	opts = append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts cfg into client options. Explicit opts passed to
// NewFromConfig are applied after these.
func (c Config) Options() ([]Option, error) {
	opts := []Option{
		WithReconciliation(c.ReconciliationEnabled),
	}
	if c.APIURI != "" {
		opts = append(opts, WithAPIURI(c.APIURI))
	}
	if c.ReconciliationURI != "" {
		opts = append(opts, WithReconciliationURI(c.ReconciliationURI))
	}
	if c.FormEncryption != "" {
		enc, err := signature.ParseEncryption(c.FormEncryption)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		opts = append(opts, WithFormEncryption(enc))
	}
	if c.ReconciliationMaxAttempts > 0 {
		opts = append(opts, WithMaxAttempts(c.ReconciliationMaxAttempts))
	}
	if c.RequestTimeout > 0 {
		opts = append(opts, WithTimeout(c.RequestTimeout))
	}
	if c.RateLimit > 0 {
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		bucket, err := ratelimiter.NewBucket(store, ratelimiter.PerSecond(c.RateLimit))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		opts = append(opts, WithRateLimiter(bucket))
	}
	return opts, nil
}

// NewFromConfig creates a Client from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	base, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(cfg.MerchantID, cfg.SecretKey, append(base, opts...)...)
}
