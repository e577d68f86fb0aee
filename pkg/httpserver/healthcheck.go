package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/solidgate/pkg/logger"
)

// Check is a named readiness dependency, e.g. a sink backend ping.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthCheckHandler returns a handler usable as both liveness and
// readiness probe.
//
//   - With no checks it answers 200 "ALIVE".
//   - Otherwise every check runs with the request context; it answers
//     200 "READY" when all pass and 503 "NOT_READY" on the first failure.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		ctx := r.Context()
		for _, c := range checks {
			if c.Fn == nil {
				continue
			}
			if err := c.Fn(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Sink(c.Name), logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
