// Package pg stores reconciliation records in PostgreSQL using pgx/v5.
//
// Connect opens a *pgxpool.Pool with retries, Migrate applies the schema
// embedded in this package with goose, and RecordSink implements sink.Sink
// by upserting into reconciliation_records:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    return err
//	}
//	stats, err := sink.Drain(ctx, it, "orders", pg.NewRecordSink(pool))
//
// Rows are keyed by (feed, record_key) where record_key is sink.Entry.Key,
// so repeated runs over overlapping date ranges do not create duplicates.
package pg
