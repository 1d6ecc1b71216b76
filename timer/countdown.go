package timer

import (
	"sync"
	"time"
)

// Countdown counts whole seconds down to zero on a one-second Ticker.
type Countdown struct {
	ticker *Ticker

	mu        sync.Mutex
	gen       uint64
	remaining int
}

// NewCountdown creates an idle Countdown. A nil clock means the wall clock.
func NewCountdown(clock Clock) *Countdown {
	return &Countdown{ticker: NewTicker(clock)}
}

// Start sets the remaining count to seconds and decrements it once per
// second. onTick receives every new remaining value; when it reaches zero the
// ticker is cancelled and onDone fires once, unless onTick restarted or
// cancelled the countdown. Either callback may be nil.
// A non-positive count cancels any running countdown and returns.
func (c *Countdown) Start(seconds int, onTick func(remaining int), onDone func()) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if seconds <= 0 {
		c.remaining = 0
		c.mu.Unlock()
		c.ticker.Cancel()
		return
	}
	c.remaining = seconds
	c.mu.Unlock()

	// interval is a positive constant, so Start cannot fail
	_ = c.ticker.Start(time.Second, func() {
		c.mu.Lock()
		if gen != c.gen || c.remaining == 0 {
			c.mu.Unlock()
			return
		}
		c.remaining--
		left := c.remaining
		c.mu.Unlock()

		if left == 0 {
			c.ticker.Cancel()
		}
		if onTick != nil {
			onTick(left)
		}
		if left == 0 && onDone != nil && c.current(gen) {
			onDone()
		}
	})
}

// current reports whether gen is still the running countdown. A Start or
// Cancel from inside onTick supersedes it.
func (c *Countdown) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

// Remaining returns the seconds left, zero when idle.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Active reports whether the countdown is still running.
func (c *Countdown) Active() bool {
	return c.Remaining() > 0
}

// Cancel stops the countdown without calling onDone.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	c.gen++
	c.remaining = 0
	c.mu.Unlock()
	c.ticker.Cancel()
}
