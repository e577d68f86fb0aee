package solidgate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/logger"
	"github.com/dmitrymomot/solidgate/pkg/reconcile"
)

// Feed is a paginated reconciliation endpoint.
type Feed struct {
	Name string
	Path string
}

var (
	FeedOrders      = Feed{Name: "orders", Path: "api/v2/reconciliation/orders"}
	FeedChargebacks = Feed{Name: "chargebacks", Path: "api/v2/reconciliation/chargebacks"}
	FeedAlerts      = Feed{Name: "alerts", Path: "api/v2/reconciliation/chargeback-alerts"}
)

// Feeds lists every reconciliation feed.
func Feeds() []Feed {
	return []Feed{FeedOrders, FeedChargebacks, FeedAlerts}
}

// ParseFeed finds a feed by name. "chargeback-alerts" is accepted for alerts.
func ParseFeed(name string) (Feed, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FeedOrders.Name:
		return FeedOrders, nil
	case FeedChargebacks.Name:
		return FeedChargebacks, nil
	case FeedAlerts.Name, "chargeback-alerts":
		return FeedAlerts, nil
	default:
		return Feed{}, fmt.Errorf("%w: %q", ErrUnknownFeed, name)
	}
}

// Orders iterates orders updated between from and to.
func (c *Client) Orders(ctx context.Context, from, to time.Time, opts ...reconcile.Option) *reconcile.Iterator {
	return c.Reconcile(ctx, FeedOrders, from, to, opts...)
}

// Chargebacks iterates chargebacks between from and to.
func (c *Client) Chargebacks(ctx context.Context, from, to time.Time, opts ...reconcile.Option) *reconcile.Iterator {
	return c.Reconcile(ctx, FeedChargebacks, from, to, opts...)
}

// Alerts iterates chargeback alerts between from and to.
func (c *Client) Alerts(ctx context.Context, from, to time.Time, opts ...reconcile.Option) *reconcile.Iterator {
	return c.Reconcile(ctx, FeedAlerts, from, to, opts...)
}

// Reconcile iterates any feed. No request is sent until the first Next.
// A terminal error stays on the iterator and is copied into LastError.
// opts are applied after the client's defaults.
func (c *Client) Reconcile(ctx context.Context, feed Feed, from, to time.Time, opts ...reconcile.Option) *reconcile.Iterator {
	ctx, _ = logger.EnsureCallID(ctx)
	log := c.log.With(logger.Feed(feed.Name), logger.Path(feed.Path))

	base := []reconcile.Option{
		reconcile.WithMaxAttempts(c.opts.maxAttempts),
		reconcile.WithMaxPages(c.opts.maxPages),
		reconcile.WithOnFinish(c.feedFinished(ctx, log, feed)),
	}
	if c.reconciliation == nil {
		return reconcile.Failed(ErrReconciliationDisabled, append(base, opts...)...)
	}

	base = append(base, reconcile.WithOnPage(c.pageObserved(ctx, log, feed)))
	if c.opts.backoff != nil {
		base = append(base, reconcile.WithBackoff(c.opts.backoff))
	}

	log.DebugContext(ctx, "reconciliation started",
		slog.String("from", from.Format(reconcile.DateLayout)),
		slog.String("to", to.Format(reconcile.DateLayout)),
	)
	return reconcile.New(ctx, c.signer, c.reconciliation, feed.Path, from, to, append(base, opts...)...)
}

func (c *Client) pageObserved(ctx context.Context, log *slog.Logger, feed Feed) func(reconcile.PageEvent) {
	return func(ev reconcile.PageEvent) {
		c.metrics.ObservePage(feed.Name, ev)

		attrs := []any{
			logger.Page(ev.Page),
			logger.Attempt(ev.Attempt),
			logger.Cursor(ev.Cursor),
			logger.Duration(ev.Duration),
		}
		if ev.Err != nil {
			log.WarnContext(ctx, "reconciliation page failed", append(attrs, logger.Error(ev.Err))...)
			return
		}
		log.DebugContext(ctx, "reconciliation page fetched", append(attrs, logger.Records(ev.Records))...)
	}
}

func (c *Client) feedFinished(ctx context.Context, log *slog.Logger, feed Feed) func(error) {
	return func(err error) {
		c.metrics.ObserveFeed(feed.Name, err)
		if err != nil {
			c.setLastError(err)
			log.ErrorContext(ctx, "reconciliation failed", logger.Error(err))
			return
		}
		log.DebugContext(ctx, "reconciliation completed")
	}
}
