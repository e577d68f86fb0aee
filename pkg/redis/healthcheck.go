package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by every go-redis client type.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// Healthcheck returns a probe that pings the server.
func Healthcheck(client Pinger) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
