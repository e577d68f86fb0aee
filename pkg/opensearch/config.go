package opensearch

type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES,required" envSeparator:","`
	Username     string   `env:"OPENSEARCH_USERNAME"`
	Password     string   `env:"OPENSEARCH_PASSWORD"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`

	IndexPrefix string `env:"OPENSEARCH_INDEX_PREFIX" envDefault:"solidgate-reconciliation"` // index is <prefix>-<feed>
	Refresh     string `env:"OPENSEARCH_REFRESH" envDefault:"false"`                         // true, false or wait_for
}
