package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// cursorPreview bounds how much of an opaque cursor reaches the log.
const cursorPreview = 16

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Merchant records the public merchant identifier under the key "merchant".
// Never pass the secret key here.
func Merchant(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("merchant", id)
}

// Operation records the API operation name under the key "operation".
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// Path records the request path relative to the base URI under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Feed records the reconciliation feed name under the key "feed".
func Feed(name string) slog.Attr {
	return slog.String("feed", name)
}

// Page records a 1-based page number under the key "page".
func Page(n int) slog.Attr {
	return slog.Int("page", n)
}

// Attempt records a 1-based attempt number under the key "attempt".
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

// Cursor records a shortened pagination cursor under the key "cursor".
// An empty cursor yields an empty Attr.
func Cursor(c string) slog.Attr {
	if c == "" {
		return slog.Attr{}
	}
	if len(c) > cursorPreview {
		c = c[:cursorPreview] + "..."
	}
	return slog.String("cursor", c)
}

// Records records a record count under the key "records".
func Records(n int) slog.Attr {
	return slog.Int("records", n)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// CallID records the per-call correlation id under the key "call_id".
func CallID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("call_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Sink records the sink backend name under the key "sink".
func Sink(name string) slog.Attr {
	return slog.String("sink", name)
}
