package timer

import (
	"time"
)

// Clock abstracts time operations for testing.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

// Stopper cancels a callback scheduled with Clock.AfterFunc.
// Stop reports whether the call prevented the callback from running.
type Stopper interface {
	Stop() bool
}

// realClock implements Clock using the standard time package.
type realClock struct{}

// Real returns the wall clock.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// CeilSeconds converts d to whole seconds, rounding up.
// 1ms becomes 1, 1000ms becomes 1, 1001ms becomes 2.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	s := d / time.Second
	if d%time.Second != 0 {
		s++
	}
	return int(s)
}
