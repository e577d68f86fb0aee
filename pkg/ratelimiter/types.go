package ratelimiter

import "time"

// Result is the outcome of one bucket check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the request was denied
	ResetAt   time.Time // next refill
}

// Allowed reports whether the request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next token arrives.
// Zero if the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Config describes a token bucket.
type Config struct {
	Capacity       int           // burst size
	RefillRate     int           // tokens added per interval
	RefillInterval time.Duration // how often tokens are added
}

// PerSecond returns a Config allowing rps requests per second with a burst of rps.
func PerSecond(rps int) Config {
	return Config{Capacity: rps, RefillRate: rps, RefillInterval: time.Second}
}
