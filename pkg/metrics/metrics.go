package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/solidgate/pkg/reconcile"
)

// Label values for outcomes.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusMalformed = "malformed"

	ResultComplete  = "complete"
	ResultExhausted = "exhausted"
	ResultPageLimit = "page_limit"
	ResultCanceled  = "canceled"
	ResultError     = "error"
)

// Sub-second heavy buckets; payment calls rarely exceed a few seconds.
var durationBuckets = []float64{
	0.01, 0.02, 0.03, 0.05, 0.08, 0.12,
	0.2, 0.3, 0.5, 0.8, 1.2, 2, 3, 5, 10,
}

// Collector holds the SDK's Prometheus collectors.
type Collector struct {
	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	pages        *prometheus.CounterVec
	pageDuration *prometheus.HistogramVec
	records      *prometheus.CounterVec
	feeds        *prometheus.CounterVec
}

// New creates a Collector and registers it with reg.
// An empty namespace defaults to "solidgate".
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		return nil, errors.New("metrics: nil registerer")
	}
	if namespace == "" {
		namespace = "solidgate"
	}

	c := &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Direct API operations by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_duration_seconds",
				Help:      "Duration of direct API operations.",
				Buckets:   durationBuckets,
			},
			[]string{"operation"},
		),
		pages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliation_page_attempts_total",
				Help:      "Reconciliation page fetch attempts by feed and outcome.",
			},
			[]string{"feed", "status"},
		),
		pageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reconciliation_page_duration_seconds",
				Help:      "Duration of reconciliation page fetch attempts.",
				Buckets:   durationBuckets,
			},
			[]string{"feed"},
		),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliation_records_total",
				Help:      "Records received from reconciliation feeds.",
			},
			[]string{"feed"},
		),
		feeds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliation_feeds_total",
				Help:      "Finished reconciliation feeds by terminal result.",
			},
			[]string{"feed", "result"},
		),
	}

	for _, col := range []prometheus.Collector{c.calls, c.callDuration, c.pages, c.pageDuration, c.records, c.feeds} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer, namespace string) *Collector {
	c, err := New(reg, namespace)
	if err != nil {
		panic(err)
	}
	return c
}

// ObserveCall records one direct operation.
func (c *Collector) ObserveCall(operation string, d time.Duration, err error) {
	if c == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	c.calls.WithLabelValues(operation, status).Inc()
	c.callDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObservePage records one page attempt of a feed.
func (c *Collector) ObservePage(feed string, ev reconcile.PageEvent) {
	if c == nil {
		return
	}
	c.pages.WithLabelValues(feed, PageStatus(ev.Err)).Inc()
	c.pageDuration.WithLabelValues(feed).Observe(ev.Duration.Seconds())
	if ev.Err == nil && ev.Records > 0 {
		c.records.WithLabelValues(feed).Add(float64(ev.Records))
	}
}

// ObserveFeed records the terminal result of a feed.
func (c *Collector) ObserveFeed(feed string, err error) {
	if c == nil {
		return
	}
	c.feeds.WithLabelValues(feed, FeedResult(err)).Inc()
}

// PageStatus classifies a page attempt error.
func PageStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case reconcile.IsMalformedResponse(err):
		return StatusMalformed
	default:
		return StatusError
	}
}

// FeedResult classifies the terminal error of a feed.
func FeedResult(err error) string {
	switch {
	case err == nil:
		return ResultComplete
	case reconcile.IsRetryExhausted(err):
		return ResultExhausted
	case errors.Is(err, reconcile.ErrPageLimit):
		return ResultPageLimit
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	default:
		return ResultError
	}
}
