package gate

import (
	"context"
	"log/slog"
	"time"

	"github.com/bjaus/gate/timer"
)

// config holds all controller configuration.
type config struct {
	name        string
	maxAttempts int
	strategy    Strategy
	cooldown    time.Duration
	multiplier  float64
	backoff     Backoff
	clock       timer.Clock
	logger      *slog.Logger
	attempt     func() int

	onBefore        OnBeforeAttemptFunc
	onAfter         OnAfterAttemptFunc
	onMaxAttempts   OnMaxAttemptsFunc
	onCooldownStart OnCooldownStartFunc
	onCooldownTick  OnCooldownTickFunc
	onCooldownEnd   OnCooldownEndFunc
	onEvent         []EventFunc
}

// Option configures a Controller.
type Option func(*config)

// WithName labels the controller in logs and events.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.maxAttempts = n
	}
}

// WithStrategy sets the cooldown strategy.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithCooldown sets the base cooldown the strategy scales.
// Zero disables cooldowns.
func WithCooldown(d time.Duration) Option {
	return func(c *config) {
		c.cooldown = d
	}
}

// WithMultiplier sets the growth factor for StrategyExponential. Values
// between 0 and 1 make the cooldown shrink; values that are not positive
// keep DefaultMultiplier.
func WithMultiplier(m float64) Option {
	return func(c *config) {
		c.multiplier = m
	}
}

// WithBackoff replaces the strategy with a custom backoff.
func WithBackoff(b Backoff) Option {
	return func(c *config) {
		c.backoff = b
	}
}

// WithClock sets the clock for time operations. Useful for testing.
func WithClock(clock timer.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithControlledAttempt makes the caller the owner of the attempt number.
//
// The controller reads the attempt through fn and never stores it. After a
// failure the exhaustion check reads fn as-is, before OnAfterAttempt runs.
// OnMaxAttempts and EventMaxAttempts are therefore emitted only when fn
// already returns the next attempt number by the time the action returns,
// for example when the action itself advances it. A caller that advances
// the value later, in OnAfterAttempt, still gets Rejected attempts past the
// maximum but never the max-attempts signal. A caller that never advances
// it will see attempts continue past the maximum.
func WithControlledAttempt(fn func() int) Option {
	return func(c *config) {
		c.attempt = fn
	}
}

// OnBeforeAttemptFunc is called before the action runs.
type OnBeforeAttemptFunc func(ctx context.Context, attempt int)

// OnAfterAttemptFunc is called with the record of every completed attempt.
type OnAfterAttemptFunc func(ctx context.Context, rec AttemptRecord)

// OnMaxAttemptsFunc is called once when the controller becomes exhausted.
type OnMaxAttemptsFunc func(ctx context.Context, attempts int, err error)

// OnCooldownStartFunc is called when a cooldown begins.
type OnCooldownStartFunc func(d time.Duration)

// OnCooldownTickFunc is called each second with the seconds left.
type OnCooldownTickFunc func(remaining int)

// OnCooldownEndFunc is called when a cooldown runs out.
type OnCooldownEndFunc func()

// EventFunc receives the analytics stream.
type EventFunc func(Event)

// OnBeforeAttempt sets a hook that is called before each attempt.
func OnBeforeAttempt(fn OnBeforeAttemptFunc) Option {
	return func(c *config) {
		c.onBefore = fn
	}
}

// OnAfterAttempt sets a hook that is called after each attempt.
func OnAfterAttempt(fn OnAfterAttemptFunc) Option {
	return func(c *config) {
		c.onAfter = fn
	}
}

// OnMaxAttempts sets a hook that is called when attempts are exhausted.
func OnMaxAttempts(fn OnMaxAttemptsFunc) Option {
	return func(c *config) {
		c.onMaxAttempts = fn
	}
}

// OnCooldownStart sets a hook that is called when a cooldown begins.
func OnCooldownStart(fn OnCooldownStartFunc) Option {
	return func(c *config) {
		c.onCooldownStart = fn
	}
}

// OnCooldownTick sets a hook that is called on every cooldown second.
func OnCooldownTick(fn OnCooldownTickFunc) Option {
	return func(c *config) {
		c.onCooldownTick = fn
	}
}

// OnCooldownEnd sets a hook that is called when a cooldown runs out.
func OnCooldownEnd(fn OnCooldownEndFunc) Option {
	return func(c *config) {
		c.onCooldownEnd = fn
	}
}

// OnEvent subscribes fn to the analytics stream. Unlike the other hooks it
// accumulates: every subscriber receives every event.
func OnEvent(fn EventFunc) Option {
	return func(c *config) {
		c.onEvent = append(c.onEvent, fn)
	}
}
