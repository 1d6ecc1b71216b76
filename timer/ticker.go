package timer

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidInterval is returned when a repeating timer is started with a
// non-positive interval or a negative initial delay.
var ErrInvalidInterval = errors.New("timer: interval must be positive")

// Ticker fires a callback repeatedly until cancelled.
//
// Only one schedule is live at a time: starting a running Ticker cancels the
// previous schedule first. After Cancel returns no new firing is scheduled;
// a callback that is already executing may still finish.
type Ticker struct {
	clock Clock

	mu       sync.Mutex
	gen      uint64
	pending  Stopper
	interval time.Duration
	fn       func()
}

// NewTicker creates a stopped Ticker. A nil clock means the wall clock.
func NewTicker(clock Clock) *Ticker {
	if clock == nil {
		clock = Real()
	}
	return &Ticker{clock: clock}
}

// Start fires fn every interval.
func (t *Ticker) Start(interval time.Duration, fn func()) error {
	return t.StartAfter(interval, interval, fn)
}

// StartAfter fires fn once after delay, then every interval.
func (t *Ticker) StartAfter(delay, interval time.Duration, fn func()) error {
	if interval <= 0 || delay < 0 {
		return ErrInvalidInterval
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.interval = interval
	t.fn = fn
	t.schedule(t.gen, delay)
	return nil
}

// Cancel stops the schedule. Safe to call on a stopped Ticker.
func (t *Ticker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Active reports whether a schedule is live.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fn != nil
}

func (t *Ticker) stopLocked() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.fn = nil
}

// schedule must be called with t.mu held.
func (t *Ticker) schedule(gen uint64, d time.Duration) {
	t.pending = t.clock.AfterFunc(d, func() {
		t.fire(gen)
	})
}

func (t *Ticker) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.fn == nil {
		t.mu.Unlock()
		return
	}
	fn := t.fn
	t.schedule(gen, t.interval)
	t.mu.Unlock()

	fn()
}
