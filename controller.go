package gate

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bjaus/gate/timer"
)

// Func is the function signature for guarded actions.
type Func func(ctx context.Context) error

// Default values.
const (
	DefaultMaxAttempts = 3
)

// attemptCounter is where the attempt number lives: inside the controller,
// or with the caller. The choice is made once in New.
type attemptCounter interface {
	current() int
	advance() int
}

type ownedAttempt struct{ n int }

func (a *ownedAttempt) current() int { return a.n }
func (a *ownedAttempt) advance() int { a.n++; return a.n }

type delegatedAttempt struct{ read func() int }

func (d delegatedAttempt) current() int { return d.read() }
func (d delegatedAttempt) advance() int { return d.read() }

// Controller gates repeated, caller-triggered attempts of an action. It
// counts attempts, enforces a maximum, and imposes a cooldown after each
// failure. It never starts an attempt on its own: a cooldown only blocks the
// next Attempt call until it runs out.
//
// Safe for concurrent use. At most one attempt runs at a time; overlapping
// calls are rejected, not queued.
type Controller struct {
	action      Func
	name        string
	maxAttempts int
	backoff     Backoff
	clock       timer.Clock
	logger      *slog.Logger
	cfg         config
	cooldown    *timer.Countdown

	mu       sync.Mutex
	counter  attemptCounter
	retrying bool
	halted   bool
	closed   bool
	disabled bool
	loading  bool
	cooling  chan struct{}
	history  []AttemptRecord
}

// New creates a Controller for action.
//
// Defaults: 3 attempts, exponential strategy with multiplier 2, no base
// cooldown (so no cooldown until WithCooldown is given), wall clock,
// slog.Default().
func New(action Func, opts ...Option) *Controller {
	cfg := config{
		maxAttempts: DefaultMaxAttempts,
		strategy:    StrategyExponential,
		multiplier:  DefaultMultiplier,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxAttempts <= 0 {
		cfg.maxAttempts = DefaultMaxAttempts
	}
	if cfg.clock == nil {
		cfg.clock = timer.Real()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	backoff := cfg.backoff
	if backoff == nil {
		backoff = cfg.strategy.Backoff(cfg.cooldown, cfg.multiplier)
	}

	var counter attemptCounter = &ownedAttempt{n: 1}
	if cfg.attempt != nil {
		counter = delegatedAttempt{read: cfg.attempt}
	}

	return &Controller{
		action:      action,
		name:        cfg.name,
		maxAttempts: cfg.maxAttempts,
		backoff:     backoff,
		clock:       cfg.clock,
		logger:      cfg.logger,
		cfg:         cfg,
		cooldown:    timer.NewCountdown(cfg.clock),
		counter:     counter,
	}
}

// Name returns the controller's label.
func (c *Controller) Name() string {
	return c.name
}

// Cooldown returns the cooldown that follows a failure of the given attempt.
func (c *Controller) Cooldown(attempt int) time.Duration {
	d := c.backoff.Delay(attempt)
	if d < 0 {
		return 0
	}
	return d
}

// Attempt runs the action once, if allowed.
//
// The attempt is rejected when another attempt is in flight, the attempt
// number exceeds the maximum, a cooldown is running, a Stop error ended the
// sequence, or the controller is closed. Otherwise the action runs on the
// calling goroutine. A success ends the sequence without touching the attempt
// number. A failure advances it by one and either exhausts the controller or
// starts the cooldown for the attempt that just failed.
//
// Action errors are never returned; they reach callers through
// OnAfterAttempt, OnMaxAttempts, the event stream, and History.
func (c *Controller) Attempt(ctx context.Context) Outcome {
	c.mu.Lock()
	attempt := c.counter.current()
	if reason := c.rejectReason(attempt); reason != "" {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "attempt rejected",
			"controller", c.name, "attempt", attempt, "reason", reason)
		c.publish(Event{Type: EventRejected, Attempt: attempt})
		return Rejected
	}
	c.retrying = true
	c.mu.Unlock()

	if c.cfg.onBefore != nil {
		c.cfg.onBefore(ctx, attempt)
	}
	c.publish(Event{Type: EventBeforeAttempt, Attempt: attempt})

	start := c.clock.Now()
	err := c.run(ctx)
	final := IsStop(err)
	err = unwrapStop(err)

	rec := AttemptRecord{
		ID:       uuid.NewString(),
		Attempt:  attempt,
		Time:     start,
		Duration: c.clock.Now().Sub(start),
		Success:  err == nil,
		Err:      err,
	}
	if rec.Success {
		return c.succeed(ctx, rec)
	}
	return c.fail(ctx, rec, final)
}

// run calls the action. A panic clears the in-flight flag and propagates.
func (c *Controller) run(ctx context.Context) error {
	returned := false
	defer func() {
		if !returned {
			c.mu.Lock()
			c.retrying = false
			c.mu.Unlock()
		}
	}()
	err := c.action(ctx)
	returned = true
	return err
}

func (c *Controller) succeed(ctx context.Context, rec AttemptRecord) Outcome {
	c.mu.Lock()
	c.history = append(c.history, rec)
	c.retrying = false
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "attempt succeeded",
		"controller", c.name, "attempt", rec.Attempt, "duration", rec.Duration)
	c.afterAttempt(ctx, rec)
	return Succeeded
}

func (c *Controller) fail(ctx context.Context, rec AttemptRecord, final bool) Outcome {
	delay := c.Cooldown(rec.Attempt)

	c.mu.Lock()
	c.history = append(c.history, rec)
	next := c.counter.advance()
	if final {
		c.halted = true
	}
	exhausted := c.halted || next > c.maxAttempts

	var seconds int
	if !exhausted && delay > 0 && !c.closed {
		seconds = timer.CeilSeconds(delay)
		cooling := make(chan struct{})
		c.cooling = cooling
		c.cooldown.Start(seconds, c.tick, func() { c.endCooldown(cooling) })
	}
	c.retrying = false
	c.mu.Unlock()

	c.logger.WarnContext(ctx, "attempt failed",
		"controller", c.name,
		"attempt", rec.Attempt,
		"max_attempts", c.maxAttempts,
		"cooldown", delay,
		"error", rec.Err,
	)
	c.afterAttempt(ctx, rec)

	if exhausted {
		c.logger.ErrorContext(ctx, "max attempts reached",
			"controller", c.name, "attempts", rec.Attempt, "error", rec.Err)
		if c.cfg.onMaxAttempts != nil {
			c.cfg.onMaxAttempts(ctx, rec.Attempt, rec.Err)
		}
		c.publish(Event{Type: EventMaxAttempts, Attempt: rec.Attempt, Err: rec.Err})
		return Exhausted
	}

	if seconds > 0 {
		if c.cfg.onCooldownStart != nil {
			c.cfg.onCooldownStart(delay)
		}
		c.publish(Event{Type: EventCooldownStart, Attempt: next, Cooldown: delay, Remaining: seconds})
	}
	return Failed
}

func (c *Controller) afterAttempt(ctx context.Context, rec AttemptRecord) {
	if c.cfg.onAfter != nil {
		c.cfg.onAfter(ctx, rec)
	}
	c.publish(Event{
		Type:     EventAfterAttempt,
		Attempt:  rec.Attempt,
		Duration: rec.Duration,
		Success:  rec.Success,
		Err:      rec.Err,
	})
}

func (c *Controller) tick(remaining int) {
	if c.cfg.onCooldownTick != nil {
		c.cfg.onCooldownTick(remaining)
	}
	c.publish(Event{Type: EventCooldownTick, Attempt: c.attempt(), Remaining: remaining})
}

// endCooldown closes cooling if it still belongs to the running cooldown.
// A cooldown replaced or cancelled in the meantime ends silently.
func (c *Controller) endCooldown(cooling chan struct{}) {
	c.mu.Lock()
	if c.cooling != cooling {
		c.mu.Unlock()
		return
	}
	close(c.cooling)
	c.cooling = nil
	attempt := c.counter.current()
	c.mu.Unlock()

	c.logger.Debug("cooldown ended", "controller", c.name, "attempt", attempt)
	if c.cfg.onCooldownEnd != nil {
		c.cfg.onCooldownEnd()
	}
	c.publish(Event{Type: EventCooldownEnd, Attempt: attempt})
}

// rejectReason must be called with c.mu held.
func (c *Controller) rejectReason(attempt int) string {
	switch {
	case c.closed:
		return "closed"
	case c.retrying:
		return "attempt in flight"
	case c.halted:
		return "stopped"
	case attempt > c.maxAttempts:
		return "max attempts reached"
	case c.cooldown.Remaining() > 0:
		return "cooling down"
	default:
		return ""
	}
}

func (c *Controller) publish(e Event) {
	if len(c.cfg.onEvent) == 0 {
		return
	}
	e.ID = uuid.NewString()
	e.Controller = c.name
	e.Time = c.clock.Now()
	e.MaxAttempts = c.maxAttempts
	for _, fn := range c.cfg.onEvent {
		fn(e)
	}
}

// Wait blocks until the running cooldown ends, the controller is closed, or
// ctx is done. It returns immediately when no cooldown is running.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	ch := c.cooling
	c.mu.Unlock()
	if ch == nil {
		return nil
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any running cooldown. Later attempts are rejected.
// Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cooldown.Cancel()
	if c.cooling != nil {
		close(c.cooling)
		c.cooling = nil
	}
}

// SetDisabled sets the caller's own disabled flag, which Disabled reports.
func (c *Controller) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
}

// SetLoading sets the caller's own loading flag, which Loading reports.
func (c *Controller) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// Disabled reports whether a retry control should be disabled: the caller
// disabled it, attempts are exhausted, or a cooldown is running.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabledLocked()
}

// Loading reports whether the caller is loading or an attempt is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading || c.retrying
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Attempt:           c.counter.current(),
		MaxAttempts:       c.maxAttempts,
		CooldownRemaining: c.cooldown.Remaining(),
		Retrying:          c.retrying,
		Exhausted:         c.exhaustedLocked(),
		Disabled:          c.disabledLocked(),
		Loading:           c.loading || c.retrying,
	}
}

// History returns a copy of the attempt log, oldest first.
func (c *Controller) History() []AttemptRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

// TrimHistory drops all but the newest keep records.
func (c *Controller) TrimHistory(keep int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if n := len(c.history); n > keep {
		c.history = slices.Clone(c.history[n-keep:])
	}
}

func (c *Controller) attempt() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter.current()
}

func (c *Controller) exhaustedLocked() bool {
	return c.halted || c.counter.current() > c.maxAttempts
}

func (c *Controller) disabledLocked() bool {
	return c.disabled || c.exhaustedLocked() || c.cooldown.Remaining() > 0
}
