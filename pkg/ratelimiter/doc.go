// Package ratelimiter throttles outbound API calls with a token bucket.
//
// A Bucket holds Capacity tokens and regains RefillRate tokens every
// RefillInterval. Allow takes a token or reports when the next one arrives;
// Wait blocks until a token is available or the context ends.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       20,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
// Throttle wraps a transport.Sender so every request waits for a token. The
// bucket key is the merchant id from the request's Merchant header, so one
// bucket can be shared by several clients:
//
//	sender := ratelimiter.Throttle(httpTransport, bucket)
package ratelimiter
