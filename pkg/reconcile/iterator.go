package reconcile

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/signature"
	"github.com/dmitrymomot/solidgate/pkg/transport"
)

// DateLayout is the wire format of date_from and date_to.
const DateLayout = "2006-01-02 15:04:05"

// RequestBuilder signs a request body for a path. *signature.Signer implements it.
type RequestBuilder interface {
	BuildRequest(path string, attributes any) (*signature.SignedRequest, error)
}

// State is the position of an Iterator in the fetch protocol.
type State int

const (
	FetchingPage State = iota
	Retrying
	Done
)

func (s State) String() string {
	switch s {
	case FetchingPage:
		return "fetching_page"
	case Retrying:
		return "retrying"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Iterator yields the records of one feed for one date range.
// Zero value is not usable; use New to create instances.
type Iterator struct {
	ctx     context.Context
	builder RequestBuilder
	sender  transport.Sender
	path    string
	from    string
	to      string
	opts    *options

	state   State
	cursor  string
	hasMore bool
	pages   int

	buf     []Record
	pos     int
	current Record
	err     error
}

// New prepares an Iterator. No request is sent until the first call to Next.
// Dates are formatted in their own location; no timezone conversion happens.
func New(ctx context.Context, builder RequestBuilder, sender transport.Sender, path string, from, to time.Time, opts ...Option) *Iterator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Iterator{
		ctx:     ctx,
		builder: builder,
		sender:  sender,
		path:    path,
		from:    from.Format(DateLayout),
		to:      to.Format(DateLayout),
		opts:    o,
		state:   FetchingPage,
		hasMore: true,
	}
}

// Next advances to the next record, fetching pages as needed. It returns
// false once the feed is exhausted or a terminal error occurred; check Err.
func (it *Iterator) Next() bool {
	for {
		if it.pos < len(it.buf) {
			it.current = it.buf[it.pos]
			it.buf[it.pos] = nil
			it.pos++
			return true
		}
		it.current = nil
		it.buf, it.pos = nil, 0

		if it.state == Done {
			return false
		}
		if !it.hasMore {
			it.finish(nil)
			return false
		}
		if it.opts.maxPages > 0 && it.pages >= it.opts.maxPages {
			it.finish(fmt.Errorf("%w: %d pages", ErrPageLimit, it.pages))
			return false
		}

		page, err := it.fetchPage()
		if err != nil {
			it.finish(err)
			return false
		}

		it.pages++
		it.buf = page.Records
		it.cursor = page.NextPageIterator
		it.hasMore = page.NextPageIterator != ""
	}
}

// Record returns the current record. Valid only after Next returned true.
func (it *Iterator) Record() Record {
	return it.current
}

// Err returns the terminal error, or nil if the feed ended naturally or is
// still being consumed.
func (it *Iterator) Err() error {
	return it.err
}

// State reports the current protocol state.
func (it *Iterator) State() State {
	return it.state
}

// Cursor returns the most recent next_page_iterator received.
func (it *Iterator) Cursor() string {
	return it.cursor
}

// Pages returns how many pages have been fetched successfully.
func (it *Iterator) Pages() int {
	return it.pages
}

// Stop ends the iteration without an error. Subsequent calls to Next return false.
func (it *Iterator) Stop() {
	it.buf, it.pos, it.current = nil, 0, nil
	it.state = Done
}

// All adapts the iterator to a range-over-func sequence. Breaking out of the
// loop leaves the iterator where it stopped; it does not rewind.
func (it *Iterator) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for it.Next() {
			if !yield(it.Record()) {
				return
			}
		}
	}
}

// fetchPage requests the current page until it is well formed or the attempt
// ceiling is hit. The same signed request is reused for every attempt.
func (it *Iterator) fetchPage() (*Page, error) {
	req, err := it.builder.BuildRequest(it.path, it.attributes())
	if err != nil {
		return nil, err
	}

	var (
		attempt int
		lastErr error
	)
	for attempt < it.opts.maxAttempts {
		if attempt > 0 {
			it.state = Retrying
			if err := it.wait(attempt); err != nil {
				return nil, err
			}
		}
		if err := it.ctx.Err(); err != nil {
			return nil, err
		}
		attempt++

		start := time.Now()
		page, err := it.attempt(req)
		it.emit(attempt, page, time.Since(start), err)

		if err == nil {
			it.state = FetchingPage
			return page, nil
		}
		if ctxErr := it.ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempt, lastErr)
}

func (it *Iterator) attempt(req *signature.SignedRequest) (*Page, error) {
	body, err := it.sender.Send(it.ctx, req)
	if err != nil {
		return nil, err
	}
	return ParsePage(body)
}

func (it *Iterator) attributes() map[string]string {
	attrs := map[string]string{
		"date_from": it.from,
		"date_to":   it.to,
	}
	if it.cursor != "" {
		attrs["next_page_iterator"] = it.cursor
	}
	return attrs
}

func (it *Iterator) wait(attempt int) error {
	if it.opts.backoff == nil {
		return nil
	}
	d := it.opts.backoff.Delay(attempt)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-it.ctx.Done():
		return it.ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (it *Iterator) emit(attempt int, page *Page, d time.Duration, err error) {
	if len(it.opts.onPage) == 0 {
		return
	}
	ev := PageEvent{
		Path:     it.path,
		Page:     it.pages + 1,
		Attempt:  attempt,
		Cursor:   it.cursor,
		Duration: d,
		Err:      err,
	}
	if page != nil {
		ev.Records = len(page.Records)
	}
	for _, fn := range it.opts.onPage {
		fn(ev)
	}
}

func (it *Iterator) finish(err error) {
	if it.state == Done {
		return
	}
	it.state = Done
	it.err = err
	it.hasMore = false
	for _, fn := range it.opts.onFinish {
		fn(err)
	}
}

// Failed returns an iterator that is already Done with err. It sends no
// requests; the OnFinish callbacks in opts run immediately.
func Failed(err error, opts ...Option) *Iterator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	it := &Iterator{ctx: context.Background(), opts: o, state: FetchingPage}
	it.finish(err)
	return it
}
