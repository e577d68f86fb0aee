package reconcile_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/solidgate/pkg/reconcile"
	"github.com/dmitrymomot/solidgate/pkg/signature"
	"github.com/dmitrymomot/solidgate/pkg/transport"
)

const ordersPath = "api/v2/reconciliation/orders"

type response struct {
	body string
	err  error
}

// feed replays scripted responses and records every request body it receives.
type feed struct {
	mu        sync.Mutex
	responses []response
	requests  []map[string]string
	signed    []*signature.SignedRequest
}

func (f *feed) Send(_ context.Context, req *signature.SignedRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var attrs map[string]string
	_ = json.Unmarshal(req.Body, &attrs)
	f.requests = append(f.requests, attrs)
	f.signed = append(f.signed, req)

	if len(f.responses) == 0 {
		return nil, errors.New("feed: no scripted response")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

func (f *feed) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newSigner(t *testing.T) *signature.Signer {
	t.Helper()
	s, err := signature.New("api_pk_1", "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	return s
}

var (
	from = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC)
)

func collectIDs(t *testing.T, it *reconcile.Iterator) []string {
	t.Helper()
	var ids []string
	for it.Next() {
		ids = append(ids, it.Record()["id"].(string))
	}
	return ids
}

func TestIterator_ThreePages(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"orders":[{"id":"1"},{"id":"2"}],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{"orders":[{"id":"3"},{"id":"4"}],"metadata":{"next_page_iterator":"c2"}}`},
		{body: `{"orders":[{"id":"5"}],"metadata":{"next_page_iterator":null}}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to)
	ids := collectIDs(t, it)

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)
	assert.NoError(t, it.Err())
	assert.Equal(t, reconcile.Done, it.State())
	assert.Equal(t, 3, it.Pages())
	assert.False(t, it.Next())

	require.Len(t, f.requests, 3)
	assert.Equal(t, map[string]string{"date_from": "2024-03-01 00:00:00", "date_to": "2024-03-02 23:59:59"}, f.requests[0])
	assert.Equal(t, "c1", f.requests[1]["next_page_iterator"])
	assert.Equal(t, "c2", f.requests[2]["next_page_iterator"])
	for _, req := range f.signed {
		assert.Equal(t, ordersPath, req.Path)
		assert.NotEmpty(t, req.Header.Get(signature.HeaderSignature))
	}
}

func TestIterator_NumericCursor(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"orders":[{"id":"1"}],"metadata":{"next_page_iterator":2}}`},
		{body: `{"orders":[{"id":"2"}],"metadata":{"next_page_iterator":null}}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to, reconcile.WithMaxAttempts(1))
	assert.Equal(t, []string{"1", "2"}, collectIDs(t, it))
	require.NoError(t, it.Err())

	require.Len(t, f.requests, 2)
	assert.Equal(t, "2", f.requests[1]["next_page_iterator"])
}

func TestIterator_RetriesMalformedPage(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"metadata":{}}`},
		{body: `{"error":"try later"}`},
		{body: `{"orders":[{"id":"only"}],"metadata":{}}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to, reconcile.WithMaxAttempts(3))

	assert.Equal(t, []string{"only"}, collectIDs(t, it))
	assert.NoError(t, it.Err())
	assert.Equal(t, 3, f.calls())

	// every attempt carries the identical signed request
	assert.Equal(t, f.signed[0].Body, f.signed[2].Body)
	assert.Equal(t, f.signed[0].Header.Get("Signature"), f.signed[2].Header.Get("Signature"))
}

func TestIterator_RetryExhausted(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"metadata":{}}`},
		{body: `{"orders":"nope"}`},
		{body: `{"orders":[{"id":"never"}]}`},
	}}

	var finished []error
	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to,
		reconcile.WithMaxAttempts(2),
		reconcile.WithOnFinish(func(err error) { finished = append(finished, err) }),
	)

	assert.Empty(t, collectIDs(t, it))
	require.Error(t, it.Err())
	assert.True(t, reconcile.IsRetryExhausted(it.Err()))
	assert.True(t, reconcile.IsMalformedResponse(it.Err()))
	assert.Equal(t, 2, f.calls())
	assert.Equal(t, reconcile.Done, it.State())

	require.Len(t, finished, 1)
	assert.Equal(t, it.Err(), finished[0])
}

func TestIterator_TransportErrorsAreRetried(t *testing.T) {
	t.Parallel()

	netErr := &transport.Error{Path: ordersPath, Err: errors.New("connection reset")}
	f := &feed{responses: []response{
		{err: netErr},
		{body: `{"orders":[{"id":"a"}]}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to)
	assert.Equal(t, []string{"a"}, collectIDs(t, it))
	assert.NoError(t, it.Err())
}

func TestIterator_TransportFailuresExhaust(t *testing.T) {
	t.Parallel()

	netErr := &transport.Error{Path: ordersPath, StatusCode: 503, Err: transport.ErrUnexpectedStatus}
	f := &feed{responses: []response{{err: netErr}, {err: netErr}, {err: netErr}}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to)
	assert.False(t, it.Next())
	assert.True(t, reconcile.IsRetryExhausted(it.Err()))
	assert.True(t, transport.IsTransportError(it.Err()))
	assert.Equal(t, reconcile.DefaultMaxAttempts, f.calls())
}

func TestIterator_AttemptCounterResetsPerPage(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{}`},
		{body: `{}`},
		{body: `{"orders":[{"id":"1"}],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{}`},
		{body: `{}`},
		{body: `{"orders":[{"id":"2"}]}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to, reconcile.WithMaxAttempts(3))
	assert.Equal(t, []string{"1", "2"}, collectIDs(t, it))
	assert.NoError(t, it.Err())
	assert.Equal(t, 6, f.calls())
}

func TestIterator_FailureOnLaterPageKeepsEarlierRecords(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"orders":[{"id":"1"},{"id":"2"}],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{"orders":[{"id":"x"}, 5],"metadata":{"next_page_iterator":"c2"}}`},
		{body: `not json`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to, reconcile.WithMaxAttempts(2))
	assert.Equal(t, []string{"1", "2"}, collectIDs(t, it))
	assert.True(t, reconcile.IsRetryExhausted(it.Err()))
	assert.Equal(t, "c1", f.requests[2]["next_page_iterator"])
}

func TestIterator_EmptyPageWithCursorContinues(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"orders":[],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{"orders":[{"id":"late"}],"metadata":{"next_page_iterator":""}}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to)
	assert.Equal(t, []string{"late"}, collectIDs(t, it))
	assert.NoError(t, it.Err())
}

func TestIterator_IsLazy(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{{body: `{"orders":[]}`}}}
	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to)

	assert.Zero(t, f.calls())
	assert.Equal(t, reconcile.FetchingPage, it.State())

	assert.False(t, it.Next())
	assert.Equal(t, 1, f.calls())
	assert.NoError(t, it.Err())
}

func TestIterator_EarlyAbandonment(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"orders":[{"id":"1"},{"id":"2"}],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{"orders":[{"id":"3"}]}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to)
	for rec := range it.All() {
		assert.Equal(t, "1", rec["id"])
		break
	}
	assert.Equal(t, 1, f.calls())

	it.Stop()
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	assert.Equal(t, 1, f.calls())
}

func TestIterator_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	f := &feed{}
	sender := transport.SenderFunc(func(c context.Context, req *signature.SignedRequest) ([]byte, error) {
		cancel()
		_, _ = f.Send(c, req)
		return nil, c.Err()
	})

	it := reconcile.New(ctx, newSigner(t), sender, ordersPath, from, to, reconcile.WithMaxAttempts(5))
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), context.Canceled)
	assert.False(t, reconcile.IsRetryExhausted(it.Err()))
	assert.Equal(t, 1, f.calls())
}

func TestIterator_BackoffRespectsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := &feed{responses: []response{{body: `{}`}, {body: `{}`}}}
	it := reconcile.New(ctx, newSigner(t), f, ordersPath, from, to,
		reconcile.WithBackoff(reconcile.FixedBackoff{Interval: time.Hour}),
	)

	start := time.Now()
	assert.False(t, it.Next())
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, it.Err(), context.DeadlineExceeded)
	assert.Equal(t, 1, f.calls())
}

func TestIterator_BackoffBetweenAttempts(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{{body: `{}`}, {body: `{"orders":[{"id":"1"}]}`}}}
	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to,
		reconcile.WithBackoff(reconcile.FixedBackoff{Interval: 20 * time.Millisecond}),
	)

	start := time.Now()
	assert.Equal(t, []string{"1"}, collectIDs(t, it))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestIterator_MaxPages(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{"orders":[{"id":"1"}],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{"orders":[{"id":"2"}],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{"orders":[{"id":"3"}],"metadata":{"next_page_iterator":"c1"}}`},
	}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to, reconcile.WithMaxPages(2))
	assert.Equal(t, []string{"1", "2"}, collectIDs(t, it))
	assert.ErrorIs(t, it.Err(), reconcile.ErrPageLimit)
	assert.Equal(t, 2, f.calls())
}

func TestIterator_DatesKeepCallerLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	f := &feed{responses: []response{{body: `{"orders":[]}`}}}

	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath,
		time.Date(2024, 1, 31, 22, 30, 0, 0, loc),
		time.Date(2024, 2, 1, 1, 5, 9, 0, loc),
	)
	assert.False(t, it.Next())

	require.Len(t, f.requests, 1)
	assert.Equal(t, "2024-01-31 22:30:00", f.requests[0]["date_from"])
	assert.Equal(t, "2024-02-01 01:05:09", f.requests[0]["date_to"])
	_, hasCursor := f.requests[0]["next_page_iterator"]
	assert.False(t, hasCursor)
}

func TestIterator_OnPageEvents(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{
		{body: `{}`},
		{body: `{"orders":[{"id":"1"},{"id":"2"}],"metadata":{"next_page_iterator":"c1"}}`},
		{body: `{"orders":[{"id":"3"}]}`},
	}}

	var events []reconcile.PageEvent
	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to,
		reconcile.WithOnPage(func(ev reconcile.PageEvent) { events = append(events, ev) }),
	)
	collectIDs(t, it)

	require.Len(t, events, 3)
	assert.Equal(t, 1, events[0].Page)
	assert.Equal(t, 1, events[0].Attempt)
	assert.ErrorIs(t, events[0].Err, reconcile.ErrMalformedResponse)

	assert.Equal(t, 1, events[1].Page)
	assert.Equal(t, 2, events[1].Attempt)
	assert.Equal(t, 2, events[1].Records)
	assert.NoError(t, events[1].Err)

	assert.Equal(t, 2, events[2].Page)
	assert.Equal(t, "c1", events[2].Cursor)
	assert.Equal(t, ordersPath, events[2].Path)
}

func TestIterator_NumbersArePreserved(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{{body: `{"orders":[{"id":"1","amount":12345678901234567890}]}`}}}
	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to)

	require.True(t, it.Next())
	assert.Equal(t, json.Number("12345678901234567890"), it.Record()["amount"])
}

func TestState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fetching_page", reconcile.FetchingPage.String())
	assert.Equal(t, "retrying", reconcile.Retrying.String())
	assert.Equal(t, "done", reconcile.Done.String())
	assert.Equal(t, "unknown", reconcile.State(9).String())
}

func TestIterator_HooksAccumulate(t *testing.T) {
	t.Parallel()

	f := &feed{responses: []response{{body: `{"orders":[{"id":"1"}]}`}}}

	var pagesA, pagesB, finishes int
	it := reconcile.New(context.Background(), newSigner(t), f, ordersPath, from, to,
		reconcile.WithOnPage(func(reconcile.PageEvent) { pagesA++ }),
		reconcile.WithOnPage(nil),
		reconcile.WithOnPage(func(reconcile.PageEvent) { pagesB++ }),
		reconcile.WithOnFinish(func(error) { finishes++ }),
		reconcile.WithOnFinish(func(error) { finishes++ }),
	)
	collectIDs(t, it)

	assert.Equal(t, 1, pagesA)
	assert.Equal(t, 1, pagesB)
	assert.Equal(t, 2, finishes)
}

func TestFailed(t *testing.T) {
	t.Parallel()

	boom := errors.New("disabled")
	var got error
	it := reconcile.Failed(boom, reconcile.WithOnFinish(func(err error) { got = err }))

	assert.Equal(t, reconcile.Done, it.State())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), boom)
	assert.ErrorIs(t, got, boom)
	assert.Zero(t, it.Pages())

	for range it.All() {
		t.Fatal("failed iterator must not yield")
	}
}
