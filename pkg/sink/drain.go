package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/reconcile"
)

// Source is the part of reconcile.Iterator that Drain consumes.
type Source interface {
	Next() bool
	Record() reconcile.Record
	Err() error
	Pages() int
	Stop()
}

var _ Source = (*reconcile.Iterator)(nil)

// Stats summarises one Drain call.
type Stats struct {
	Records  int
	Pages    int
	Duration time.Duration
}

// Drain writes every record of src to s, tagged with feed. It returns the
// source's terminal error, or the first write error, in which case the
// source is stopped and no further pages are fetched. Drain does not close s.
func Drain(ctx context.Context, src Source, feed string, s Sink) (Stats, error) {
	start := time.Now()
	var stats Stats

	for {
		// Checked before Next so a cancelled drain never takes a record
		// it will not write.
		if err := ctx.Err(); err != nil {
			src.Stop()
			stats.Pages = src.Pages()
			stats.Duration = time.Since(start)
			return stats, err
		}
		if !src.Next() {
			break
		}
		e := Entry{
			Feed:       feed,
			Record:     src.Record(),
			Page:       src.Pages(),
			ReceivedAt: time.Now(),
		}
		if err := s.Write(ctx, e); err != nil {
			src.Stop()
			stats.Pages = src.Pages()
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("%w: record %d: %w", ErrWriteFailed, stats.Records+1, err)
		}
		stats.Records++
	}

	stats.Pages = src.Pages()
	stats.Duration = time.Since(start)
	return stats, src.Err()
}
