// Package logger provides a context-aware wrapper around log/slog with
// functional options, attribute helpers with stable keys, and transparent
// injection of values stored in context.Context.
//
// New returns a *slog.Logger whose handler is wrapped by LogHandlerDecorator.
// The decorator runs every registered ContextExtractor before delegating, so
// a call id placed in the context by the client shows up on each record
// produced while serving that call.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "reconciler"),
//	    logger.WithOutput(os.Stderr),
//	)
//
//	ctx, _ := logger.EnsureCallID(context.Background())
//	log.InfoContext(ctx, "page fetched",
//	    logger.Feed("orders"),
//	    logger.Page(3),
//	    logger.Records(100),
//	)
//
// # Attributes
//
// Merchant, Operation, Path, Feed, Page, Attempt, Cursor, Records, Duration,
// CallID, Component and Sink give the SDK's records consistent keys. Cursor
// shortens the opaque pagination token. Error and Errors return an empty
// attribute for nil errors, so they can be passed unconditionally:
//
//	log.Info("operation finished", logger.Error(err))
//
// Secrets and signatures must never be logged.
package logger
