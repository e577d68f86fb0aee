package pg

import (
	"context"
	"errors"
)

// Pinger is satisfied by *pgxpool.Pool and *pgx.Conn.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a probe validating database connectivity.
func Healthcheck(conn Pinger) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := conn.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
