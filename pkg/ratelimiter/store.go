package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state.
type Store interface {
	// ConsumeTokens refills the bucket for key, then takes tokens from it.
	// A negative remaining value means the bucket was short; the deficit is
	// kept, so callers that give up must return the tokens.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset forgets the bucket for key.
	Reset(ctx context.Context, key string) error
}
