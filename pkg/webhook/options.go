package webhook

import (
	"log/slog"
	"time"
)

// DefaultMaxBodySize caps callback bodies read by Handler.
const DefaultMaxBodySize int64 = 1 << 20

type options struct {
	maxBodySize int64
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Verifier.
type Option func(*options)

// WithMaxBodySize limits how much of a request body Handler reads.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// WithLogger sets the logger used by Handler.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now for Event.ReceivedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
