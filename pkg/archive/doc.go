// Package archive uploads reconciliation records to S3 as JSON Lines batches.
//
// S3Sink implements sink.Sink. Records are buffered per feed and written as
// objects named <prefix>/<feed>/<timestamp>-<run id>-<seq>.jsonl, one object per
// BatchSize records plus a final partial batch on Close. Each line is a
// sink.Line envelope.
//
//	client, err := archive.NewS3Client(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	s, err := archive.NewS3Sink(client, cfg)
//	if err != nil {
//	    return err
//	}
//	defer s.Close(ctx)
//
//	stats, err := sink.Drain(ctx, it, "orders", s)
//
// Upload failures are classified into ErrAccessDenied, ErrBucketNotFound,
// ErrServiceUnavailable, ErrOperationTimeout and ErrUploadFailed. A failed
// batch stays buffered, so calling Flush or Close again retries it.
package archive
