// Package redis connects to Redis and publishes reconciliation records to
// Redis streams.
//
// Connect parses a redis:// URL and pings the server with retries.
// Healthcheck wraps a ping for readiness probes. StreamSink implements
// sink.Sink by appending one XADD entry per record to <prefix>:<feed>.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	stats, err := sink.Drain(ctx, it, "orders", redis.NewStreamSink(client, cfg))
//
// Errors join the package sentinels (ErrRedisNotReady, ErrStreamWrite, ...)
// with the driver error, so both can be matched with errors.Is.
package redis
