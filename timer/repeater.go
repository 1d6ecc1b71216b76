package timer

import "time"

// Press-and-hold defaults.
const (
	DefaultHoldDelay    = 400 * time.Millisecond
	DefaultHoldInterval = 75 * time.Millisecond
)

// Repeater runs an action after an initial delay and then at a fixed interval
// until stopped, the way a held button repeats.
type Repeater struct {
	ticker   *Ticker
	delay    time.Duration
	interval time.Duration
}

// NewRepeater creates an idle Repeater. Zero delay or interval selects the
// defaults; a nil clock means the wall clock.
func NewRepeater(clock Clock, delay, interval time.Duration) *Repeater {
	if delay <= 0 {
		delay = DefaultHoldDelay
	}
	if interval <= 0 {
		interval = DefaultHoldInterval
	}
	return &Repeater{
		ticker:   NewTicker(clock),
		delay:    delay,
		interval: interval,
	}
}

// Start begins a hold. Any previous hold is cleared first, so a control never
// has two overlapping schedules.
func (r *Repeater) Start(fn func()) error {
	return r.ticker.StartAfter(r.delay, r.interval, fn)
}

// Stop ends the hold.
func (r *Repeater) Stop() {
	r.ticker.Cancel()
}

// Holding reports whether a hold is in progress.
func (r *Repeater) Holding() bool {
	return r.ticker.Active()
}

// Delay returns the initial hold delay.
func (r *Repeater) Delay() time.Duration { return r.delay }

// Interval returns the repeat interval.
func (r *Repeater) Interval() time.Duration { return r.interval }
