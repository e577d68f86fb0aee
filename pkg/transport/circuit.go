package transport

import (
	"sync"
	"time"
)

// CircuitState is the position of a CircuitBreaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calling an API host after repeated failures and probes
// it again once the cool-down has elapsed. Safe for concurrent use.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	successThreshold int
	coolDown         time.Duration
	now              func() time.Time

	state     CircuitState
	failures  int
	successes int
	openedAt  time.Time
}

// NewCircuitBreaker opens after failureThreshold consecutive failures, stays
// open for coolDown, then closes again after successThreshold successful probes.
// Non-positive arguments fall back to 5, 2 and 30s.
func NewCircuitBreaker(failureThreshold, successThreshold int, coolDown time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if successThreshold <= 0 {
		successThreshold = 2
	}
	if coolDown <= 0 {
		coolDown = 30 * time.Second
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		coolDown:         coolDown,
		now:              time.Now,
	}
}

// Allow reports whether a call may proceed, moving an expired open circuit
// to half-open.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen {
		if cb.now().Sub(cb.openedAt) < cb.coolDown {
			return false
		}
		cb.state = CircuitHalfOpen
		cb.successes = 0
	}
	return true
}

// RecordSuccess notes a healthy response.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.failures = 0
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = CircuitClosed
			cb.failures = 0
			cb.successes = 0
		}
	}
}

// RecordFailure notes a failed call; a failing probe reopens immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.trip()
		}
	case CircuitHalfOpen:
		cb.trip()
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = CircuitOpen
	cb.openedAt = cb.now()
	cb.successes = 0
}

// State returns the current state without side effects. An open circuit whose
// cool-down has elapsed reports half-open.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && cb.now().Sub(cb.openedAt) >= cb.coolDown {
		return CircuitHalfOpen
	}
	return cb.state
}

// Reset closes the circuit and clears counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitClosed
	cb.failures = 0
	cb.successes = 0
	cb.openedAt = time.Time{}
}
