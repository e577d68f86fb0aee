// Package mongo stores reconciliation records in MongoDB.
//
// New connects with retries using Config, which is populated from MONGODB_*
// environment variables. RecordsCollection opens the configured collection
// and ensures the unique {feed, key} index. RecordSink implements sink.Sink
// with one upserting ReplaceOne per record:
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(ctx)
//
//	coll, err := mongo.RecordsCollection(ctx, client, cfg)
//	if err != nil {
//	    return err
//	}
//	stats, err := sink.Drain(ctx, it, "chargebacks", mongo.NewRecordSink(coll))
//
// Healthcheck returns a ping-based probe for readiness checks.
package mongo
