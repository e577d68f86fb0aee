// Package opensearch indexes reconciliation records into OpenSearch.
//
// New builds an *opensearch.Client from Config (OPENSEARCH_* variables) and
// verifies the cluster with Healthcheck. RecordSink implements sink.Sink,
// writing each record to the index <prefix>-<feed> under the id
// <feed>:<key>, so repeated runs overwrite instead of duplicating:
//
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	stats, err := sink.Drain(ctx, it, "alerts", opensearch.NewRecordSink(client, cfg))
//
// The indexed document is the sink.Line envelope: feed, key, page,
// received_at and the raw record.
package opensearch
