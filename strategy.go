package gate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Strategy selects how the cooldown grows between failed attempts.
type Strategy int

// Cooldown strategies.
const (
	StrategyImmediate Strategy = iota
	StrategyConstant
	StrategyLinear
	StrategyExponential
)

// MaxExponentialCooldown caps StrategyExponential.
//
// TODO: confirm with product whether this ceiling should become configurable.
const MaxExponentialCooldown = 30 * time.Second

// DefaultMultiplier is the exponential growth factor when none is configured.
const DefaultMultiplier = 2.0

// ErrUnknownStrategy is returned by ParseStrategy for unrecognized names.
var ErrUnknownStrategy = errors.New("gate: unknown strategy")

var strategyNames = map[Strategy]string{
	StrategyImmediate:   "immediate",
	StrategyConstant:    "constant",
	StrategyLinear:      "linear",
	StrategyExponential: "exponential",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == want {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Backoff returns the cooldown formula for s:
//
//	immediate:   0
//	constant:    base
//	linear:      base * attempt
//	exponential: min(base * multiplier^(attempt-1), MaxExponentialCooldown)
//
// A zero base yields no cooldown for every strategy.
func (s Strategy) Backoff(base time.Duration, multiplier float64) Backoff {
	if base <= 0 {
		return None()
	}
	switch s {
	case StrategyConstant:
		return Constant(base)
	case StrategyLinear:
		return Linear(base)
	case StrategyExponential:
		return WithCap(MaxExponentialCooldown, Exponential(base, multiplier))
	default:
		return None()
	}
}
