package logger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type callIDKey struct{}

// NewCallID returns a fresh random correlation id.
func NewCallID() string {
	return uuid.NewString()
}

// WithCallID stores a correlation id in the context.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// EnsureCallID returns ctx unchanged when it already carries a call id,
// otherwise a child context with a new one. The id is returned as well.
// A nil ctx is treated as context.Background.
func EnsureCallID(ctx context.Context) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id := CallIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := NewCallID()
	return WithCallID(ctx, id), id
}

func CallIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, ok := ctx.Value(callIDKey{}).(string)
	if !ok {
		return ""
	}
	return id
}

// CallIDExtractor returns a ContextExtractor adding "call_id" to records
// logged with a context that carries one.
func CallIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := CallIDFromContext(ctx); id != "" {
			return CallID(id), true
		}
		return slog.Attr{}, false
	}
}
