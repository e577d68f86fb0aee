// Package reconcile drains SolidGate reconciliation feeds page by page.
//
// A feed (orders, chargebacks, chargeback alerts) is read with repeated
// signed POST requests carrying the date range and an opaque cursor,
// next_page_iterator, returned by the previous page. The Iterator hides that
// protocol behind a pull API:
//
//	it := reconcile.New(ctx, signer, sender, "api/v2/reconciliation/orders", from, to)
//	for it.Next() {
//	    rec := it.Record()
//	    // ...
//	}
//	if err := it.Err(); err != nil {
//	    // retry attempts exhausted, context canceled, ...
//	}
//
// # States
//
// The iterator moves between three states:
//
//	FetchingPage -> (page ok)      -> FetchingPage with the new cursor, or Done when the cursor is empty
//	FetchingPage -> (page bad)     -> Retrying
//	Retrying     -> (page ok)      -> FetchingPage
//	Retrying     -> (max attempts) -> Done with ErrRetryExhausted
//
// A page is well formed when the body is a JSON object whose "orders" field
// is an array of objects. Transport failures and malformed pages share one
// attempt counter that is reset for every new page. No record of a page is
// produced before the whole page has been fetched and validated.
//
// Context cancellation is not retried. Retries are immediate unless a
// Backoff is configured.
//
// # Lifecycle
//
// Iterators are lazy (nothing is sent before the first Next), finite,
// forward-only and not restartable: call New again to start over from the
// first page. An Iterator must not be shared between goroutines. Stopping
// early leaks nothing because no background work is ever started.
package reconcile
