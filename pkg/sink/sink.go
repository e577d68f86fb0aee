package sink

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"sync"
)

// Sink is a destination for reconciliation records.
// Write may be called many times; Close flushes and releases resources
// owned by the sink, never clients passed in by the caller.
type Sink interface {
	Write(ctx context.Context, e Entry) error
	Close(ctx context.Context) error
}

// Func adapts a function to a Sink with a no-op Close.
type Func func(ctx context.Context, e Entry) error

func (f Func) Write(ctx context.Context, e Entry) error { return f(ctx, e) }

func (f Func) Close(context.Context) error { return nil }

type multi []Sink

// Multi writes every entry to all sinks in order. A failing sink does not
// prevent the others from receiving the entry; errors are joined.
func Multi(sinks ...Sink) Sink {
	return multi(slices.Clone(sinks))
}

func (m multi) Write(ctx context.Context, e Entry) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Close(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// JSONLines writes one Line per record to w. It is safe for concurrent use.
type JSONLines struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLines wraps w. If w is an io.Closer it is closed by Close.
func NewJSONLines(w io.Writer) *JSONLines {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	j := &JSONLines{enc: enc}
	if c, ok := w.(io.Closer); ok {
		j.closer = c
	}
	return j
}

func (j *JSONLines) Write(_ context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.enc == nil {
		return ErrClosed
	}
	return j.enc.Encode(e.Line())
}

func (j *JSONLines) Close(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.enc = nil
	if j.closer != nil {
		c := j.closer
		j.closer = nil
		return c.Close()
	}
	return nil
}

// Memory keeps entries in memory. Handy in tests and small tools.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	closed  bool
}

func (m *Memory) Write(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Entries returns a copy of what was written so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
