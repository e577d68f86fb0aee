package webhook

// Config holds webhook credentials. They are separate from the API keys.
type Config struct {
	MerchantID  string `env:"SOLIDGATE_WEBHOOK_MERCHANT_ID,required"`
	SecretKey   string `env:"SOLIDGATE_WEBHOOK_SECRET_KEY,required"`
	Path        string `env:"SOLIDGATE_WEBHOOK_PATH" envDefault:"/webhooks/solidgate"`
	MaxBodySize int64  `env:"SOLIDGATE_WEBHOOK_MAX_BODY_SIZE" envDefault:"1048576"`
}

// NewFromConfig creates a Verifier from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Verifier, error) {
	if cfg.MaxBodySize > 0 {
		opts = append([]Option{WithMaxBodySize(cfg.MaxBodySize)}, opts...)
	}
	return New(cfg.MerchantID, cfg.SecretKey, opts...)
}
