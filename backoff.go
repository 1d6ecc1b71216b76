package gate

import (
	"math"
	"time"
)

// Backoff calculates the cooldown after a failed attempt.
type Backoff interface {
	Delay(attempt int) time.Duration
}

// BackoffFunc is an adapter that allows a function to be used as a Backoff.
type BackoffFunc func(attempt int) time.Duration

// Delay implements Backoff.
func (f BackoffFunc) Delay(attempt int) time.Duration {
	return f(attempt)
}

// None returns a backoff with no cooldown.
func None() Backoff {
	return BackoffFunc(func(int) time.Duration {
		return 0
	})
}

// Constant returns a backoff that always waits the same duration.
func Constant(d time.Duration) Backoff {
	return BackoffFunc(func(attempt int) time.Duration {
		return d
	})
}

// Linear returns a backoff that increases linearly with each attempt.
// delay = base * attempt
func Linear(base time.Duration) Backoff {
	return BackoffFunc(func(attempt int) time.Duration {
		if attempt <= 0 {
			return base
		}
		return base * time.Duration(attempt)
	})
}

// Exponential returns a backoff that grows by multiplier with each attempt.
// delay = base * multiplier^(attempt-1)
//
// A multiplier between 0 and 1 shrinks the delay with each attempt. A
// multiplier that is not positive is treated as DefaultMultiplier.
func Exponential(base time.Duration, multiplier float64) Backoff {
	if !(multiplier > 0) {
		multiplier = DefaultMultiplier
	}
	return BackoffFunc(func(attempt int) time.Duration {
		if attempt <= 1 {
			return base
		}
		d := float64(base) * math.Pow(multiplier, float64(attempt-1))
		// Prevent overflow
		if d >= math.MaxInt64 {
			return time.Duration(math.MaxInt64)
		}
		return time.Duration(d)
	})
}

// WithCap wraps a backoff and caps the delay at a maximum value.
func WithCap(max time.Duration, b Backoff) Backoff {
	return BackoffFunc(func(attempt int) time.Duration {
		d := b.Delay(attempt)
		if d > max {
			return max
		}
		return d
	})
}
