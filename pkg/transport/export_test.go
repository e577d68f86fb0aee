package transport

import "time"

// SetClock swaps the breaker clock so tests can skip the cool-down.
func (cb *CircuitBreaker) SetClock(now func() time.Time) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.now = now
}
