package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // redis://:password@host:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	StreamPrefix string `env:"REDIS_STREAM_PREFIX" envDefault:"solidgate:reconciliation"` // stream name is <prefix>:<feed>
	StreamMaxLen int64  `env:"REDIS_STREAM_MAXLEN" envDefault:"0"`                        // approximate trim length, 0 keeps everything
}
