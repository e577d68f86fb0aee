// Package httpserver runs the webhook listener: an http.Server bound to a
// listener, stopped gracefully when its context is cancelled, plus a
// liveness/readiness handler backed by named dependency checks.
//
// Signal handling is left to the caller; cancel the context passed to Run
// (e.g. one from signal.NotifyContext) to stop the server.
//
//	r := chi.NewRouter()
//	r.Post(cfg.Path, verifier.Handler(store))
//	r.Get("/healthz", httpserver.HealthCheckHandler(log, httpserver.Check{Name: "redis", Fn: rdb.Ping}))
//
//	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("webhook listener stopped", logger.Error(err))
//	}
//
// Run wraps listen errors with ErrStart and Shutdown wraps shutdown errors
// with ErrShutdown.
package httpserver
