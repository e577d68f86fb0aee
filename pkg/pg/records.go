package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/solidgate/pkg/sink"
)

// RecordsTable is created by the embedded migrations.
const RecordsTable = "reconciliation_records"

const upsertRecordQuery = `
INSERT INTO reconciliation_records (feed, record_key, page, payload, received_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (feed, record_key) DO UPDATE SET
    page        = EXCLUDED.page,
    payload     = EXCLUDED.payload,
    received_at = EXCLUDED.received_at,
    updated_at  = now()`

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// RecordSink upserts records into reconciliation_records keyed by
// (feed, record_key), so re-running a date range updates rows in place.
type RecordSink struct {
	db Execer
}

var _ sink.Sink = (*RecordSink)(nil)

func NewRecordSink(db Execer) *RecordSink {
	return &RecordSink{db: db}
}

func (s *RecordSink) Write(ctx context.Context, e sink.Entry) error {
	payload, err := e.RecordJSON()
	if err != nil {
		return errors.Join(ErrRecordWrite, err)
	}
	if _, err := s.db.Exec(ctx, upsertRecordQuery,
		e.Feed, e.Key(), e.Page, string(payload), e.ReceivedAt.UTC(),
	); err != nil {
		return errors.Join(ErrRecordWrite, err)
	}
	return nil
}

// Close is a no-op; the pool belongs to the caller.
func (s *RecordSink) Close(context.Context) error {
	return nil
}
