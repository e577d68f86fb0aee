package reconcile

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes the pause before a retry. Attempt is 1 for the first retry.
// Implementations must be safe for concurrent use.
type Backoff interface {
	Delay(attempt int) time.Duration
}

// FixedBackoff waits the same interval before every retry.
type FixedBackoff struct {
	Interval time.Duration
}

func (f FixedBackoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// LinearBackoff waits Interval*attempt, capped at Max.
type LinearBackoff struct {
	Interval time.Duration
	Max      time.Duration
}

func (l LinearBackoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := l.Interval * time.Duration(attempt)
	if l.Max > 0 && d > l.Max {
		d = l.Max
	}
	return d
}

// ExponentialBackoff waits Initial*Multiplier^(attempt-1), spread by
// ±Jitter and capped at Max. Zero fields fall back to 500ms, 10s and 2.
type ExponentialBackoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

func (e ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.Initial
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	ceiling := e.Max
	if ceiling <= 0 {
		ceiling = 10 * time.Second
	}
	mult := e.Multiplier
	if mult <= 0 {
		mult = 2
	}

	d := float64(initial) * math.Pow(mult, float64(attempt-1))
	if e.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*e.Jitter
	}
	if d > float64(ceiling) {
		d = float64(ceiling)
	}
	return time.Duration(d)
}
