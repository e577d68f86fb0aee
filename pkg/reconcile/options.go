package reconcile

import "time"

// DefaultMaxAttempts is the per-page attempt ceiling.
const DefaultMaxAttempts = 3

// PageEvent describes one page attempt. Err is nil for a successful attempt.
type PageEvent struct {
	Path     string
	Page     int // 1-based page number
	Attempt  int // 1-based attempt for this page
	Records  int
	Cursor   string // cursor sent with the request, empty on the first page
	Duration time.Duration
	Err      error
}

type options struct {
	maxAttempts int
	maxPages    int
	backoff     Backoff
	onPage      []func(PageEvent)
	onFinish    []func(error)
}

func defaultOptions() *options {
	return &options{maxAttempts: DefaultMaxAttempts}
}

// Option configures an Iterator.
type Option func(*options)

// WithMaxAttempts sets how many times one page is requested before giving up.
// Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxAttempts = n
		}
	}
}

// WithMaxPages stops the feed with ErrPageLimit after n pages.
// Zero, the default, means no limit.
func WithMaxPages(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxPages = n
		}
	}
}

// WithBackoff pauses between retries of the same page. Default is no pause.
func WithBackoff(b Backoff) Option {
	return func(o *options) {
		o.backoff = b
	}
}

// WithOnPage registers an observer called after every page attempt.
// Observers accumulate and run in registration order.
func WithOnPage(fn func(PageEvent)) Option {
	return func(o *options) {
		if fn != nil {
			o.onPage = append(o.onPage, fn)
		}
	}
}

// WithOnFinish registers a callback invoked once when the iterator reaches
// Done, with the terminal error or nil. It is not called when the consumer
// stops early. Callbacks accumulate like WithOnPage.
func WithOnFinish(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onFinish = append(o.onFinish, fn)
		}
	}
}
