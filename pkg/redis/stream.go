package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/solidgate/pkg/sink"
)

// StreamAdder is the subset of redis.UniversalClient used by StreamSink.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamSink appends every record to the stream <prefix>:<feed>.
// Consumers can read the streams with XREAD or consumer groups.
type StreamSink struct {
	client StreamAdder
	prefix string
	maxLen int64
}

var _ sink.Sink = (*StreamSink)(nil)

// NewStreamSink creates a sink over client using the stream settings of cfg.
// An empty prefix falls back to "solidgate:reconciliation".
func NewStreamSink(client StreamAdder, cfg Config) *StreamSink {
	prefix := cfg.StreamPrefix
	if prefix == "" {
		prefix = "solidgate:reconciliation"
	}
	return &StreamSink{client: client, prefix: prefix, maxLen: cfg.StreamMaxLen}
}

// Stream returns the stream name used for feed.
func (s *StreamSink) Stream(feed string) string {
	return s.prefix + ":" + feed
}

// Write adds one stream entry with the fields key, page, received_at and record.
func (s *StreamSink) Write(ctx context.Context, e sink.Entry) error {
	record, err := e.RecordJSON()
	if err != nil {
		return errors.Join(ErrStreamWrite, err)
	}

	args := &redis.XAddArgs{
		Stream: s.Stream(e.Feed),
		Values: map[string]any{
			"key":         e.Key(),
			"page":        e.Page,
			"received_at": e.ReceivedAt.UTC().Format(time.RFC3339Nano),
			"record":      string(record),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return errors.Join(ErrStreamWrite, err)
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (s *StreamSink) Close(context.Context) error {
	return nil
}
