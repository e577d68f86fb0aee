// Package sink drains reconciliation feeds into destinations.
//
// A Sink receives one Entry per record. Drain pulls records from a
// reconcile.Iterator and writes them in feed order, stopping at the first
// sink error. Backends for Redis streams, PostgreSQL, MongoDB, OpenSearch
// and S3 live in their own packages and implement the same interface.
//
//	it := client.Orders(ctx, from, to)
//	stats, err := sink.Drain(ctx, it, "orders", sink.NewJSONLines(os.Stdout))
//
// Entry.Key gives every record a stable identity so upserting backends stay
// idempotent when the same date range is reconciled twice.
package sink
