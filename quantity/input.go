package quantity

import (
	"sync"
	"time"

	"github.com/bjaus/gate/timer"
)

// Direction selects which way a held button steps.
type Direction int

// Step directions.
const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// source is where the current value lives: inside the Input, or with the
// caller. The choice is made once at construction.
type source interface {
	get() Value
	set(Value)
}

type ownedSource struct{ v Value }

func (o *ownedSource) get() Value  { return o.v }
func (o *ownedSource) set(v Value) { o.v = v }

// delegatedSource reads the caller's value and never stores one; the caller
// applies changes from the OnChange sink.
type delegatedSource struct{ read func() Value }

func (d delegatedSource) get() Value { return d.read() }
func (d delegatedSource) set(Value)  {}

// Input is the stateful side of a quantity field: it owns (or defers to the
// caller for) the current value, reports changes through OnChange, and runs
// press-and-hold repetition. Safe for concurrent use.
type Input struct {
	stepper  *Stepper
	onChange func(Value)
	hold     *timer.Repeater

	mu     sync.Mutex
	src    source
	closed bool
}

type inputConfig struct {
	initial      Value
	controlled   func() Value
	onChange     func(Value)
	clock        timer.Clock
	holdDelay    time.Duration
	holdInterval time.Duration
}

// InputOption configures an Input.
type InputOption func(*inputConfig)

// WithValue sets the initial value of an owned Input.
func WithValue(v Value) InputOption {
	return func(c *inputConfig) {
		c.initial = v
	}
}

// Controlled makes the caller the owner of the value. The Input reads it
// through read and never keeps its own copy; the caller must apply what
// OnChange reports.
func Controlled(read func() Value) InputOption {
	return func(c *inputConfig) {
		c.controlled = read
	}
}

// OnChange sets the sink that receives every emitted value.
func OnChange(fn func(Value)) InputOption {
	return func(c *inputConfig) {
		c.onChange = fn
	}
}

// WithClock sets the clock used for press-and-hold. Useful for testing.
func WithClock(clock timer.Clock) InputOption {
	return func(c *inputConfig) {
		c.clock = clock
	}
}

// WithHold overrides the press-and-hold delay and repeat interval.
func WithHold(delay, interval time.Duration) InputOption {
	return func(c *inputConfig) {
		c.holdDelay = delay
		c.holdInterval = interval
	}
}

// NewInput creates an Input over s.
func NewInput(s *Stepper, opts ...InputOption) *Input {
	var cfg inputConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	in := &Input{
		stepper:  s,
		onChange: cfg.onChange,
		hold:     timer.NewRepeater(cfg.clock, cfg.holdDelay, cfg.holdInterval),
	}
	if cfg.controlled != nil {
		in.src = delegatedSource{read: cfg.controlled}
	} else {
		in.src = &ownedSource{v: cfg.initial}
	}
	return in
}

// Value returns the current value.
func (in *Input) Value() Value {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.src.get()
}

// Increment steps up and returns the resulting value.
func (in *Input) Increment() Value {
	return in.apply(in.stepper.Increment)
}

// Decrement steps down and returns the resulting value.
func (in *Input) Decrement() Value {
	return in.apply(in.stepper.Decrement)
}

// Type handles raw field text. Rejected text leaves the value alone and
// emits nothing; accepted text is emitted as typed. It reports acceptance.
func (in *Input) Type(raw string) bool {
	v, ok := ParseInput(raw)
	if !ok {
		return false
	}

	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return false
	}
	in.src.set(v)
	in.mu.Unlock()

	in.emit(v)
	return true
}

// Blur commits the value: it is clamped and rounded, and emitted only when
// that changed it.
func (in *Input) Blur() Value {
	return in.apply(func(v Value) Value {
		out, _ := in.stepper.CommitBlur(v)
		return out
	})
}

// StartHold begins repeating steps in direction d until StopHold. The press
// itself is not a step; the first repeat comes after the hold delay. A hold
// already in progress is replaced.
func (in *Input) StartHold(d Direction) error {
	in.mu.Lock()
	closed := in.closed
	in.mu.Unlock()
	if closed {
		return nil
	}

	step := in.Increment
	if d == Down {
		step = in.Decrement
	}
	return in.hold.Start(func() { step() })
}

// StopHold ends a hold. Call it on release, on pointer leave, and at teardown.
func (in *Input) StopHold() {
	in.hold.Stop()
}

// Holding reports whether a hold is in progress.
func (in *Input) Holding() bool {
	return in.hold.Holding()
}

// Close stops any hold and makes further changes no-ops.
func (in *Input) Close() {
	in.mu.Lock()
	in.closed = true
	in.mu.Unlock()
	in.hold.Stop()
}

func (in *Input) apply(op func(Value) Value) Value {
	in.mu.Lock()
	cur := in.src.get()
	if in.closed {
		in.mu.Unlock()
		return cur
	}
	next := op(cur)
	changed := !next.Equal(cur)
	if changed {
		in.src.set(next)
	}
	in.mu.Unlock()

	if changed {
		in.emit(next)
	}
	return next
}

func (in *Input) emit(v Value) {
	if in.onChange != nil {
		in.onChange(v)
	}
}
