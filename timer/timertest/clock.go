// Package timertest provides a manually advanced clock for timer tests.
package timertest

import (
	"sync"
	"time"

	"github.com/bjaus/gate/timer"
)

// Clock is a fake timer.Clock. Time only moves when Advance is called.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *Clock
	at    time.Time
	seq   uint64
	f     func()
}

// New returns a Clock starting at a fixed instant.
func New() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements timer.Clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements timer.Clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) timer.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing every timer that comes due in
// deadline order. Timers scheduled by a firing callback fire too when their
// deadline falls inside the window. Callbacks run on the calling goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDue(end)
		if next == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of scheduled timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// popDue removes and returns the earliest timer due at or before end.
func (c *Clock) popDue(end time.Time) *fakeTimer {
	idx := -1
	for i, t := range c.timers {
		if t.at.After(end) {
			continue
		}
		if idx < 0 || t.at.Before(c.timers[idx].at) ||
			(t.at.Equal(c.timers[idx].at) && t.seq < c.timers[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := c.timers[idx]
	c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
	return t
}

func (t *fakeTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}
