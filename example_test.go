package gate_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bjaus/gate"
	"github.com/bjaus/gate/timer/timertest"
)

// ExampleNew demonstrates gating caller-triggered retries.
func ExampleNew() {
	clock := timertest.New()
	attempts := 0

	ctrl := gate.New(func(ctx context.Context) error {
		attempts++
		return errors.New("service unavailable")
	},
		gate.WithMaxAttempts(3),
		gate.WithStrategy(gate.StrategyConstant),
		gate.WithCooldown(time.Second),
		gate.WithClock(clock),
		gate.WithLogger(quietLogger()),
	)
	defer ctrl.Close()

	fmt.Println(ctrl.Attempt(context.Background()))
	fmt.Println(ctrl.Attempt(context.Background())) // cooling down
	clock.Advance(time.Second)
	fmt.Println(ctrl.Attempt(context.Background()))
	clock.Advance(time.Second)
	fmt.Println(ctrl.Attempt(context.Background()))
	fmt.Println(ctrl.Attempt(context.Background()))
	fmt.Println("Attempts:", attempts)

	// Output:
	// failed
	// rejected
	// failed
	// exhausted
	// rejected
	// Attempts: 3
}

// ExampleStop demonstrates ending the sequence on a non-retryable error.
func ExampleStop() {
	forbidden := errors.New("forbidden")

	ctrl := gate.New(func(ctx context.Context) error {
		return gate.Stop(forbidden)
	},
		gate.WithMaxAttempts(5),
		gate.WithLogger(quietLogger()),
		gate.OnMaxAttempts(func(ctx context.Context, attempts int, err error) {
			fmt.Printf("Gave up after %d attempt: %v\n", attempts, err)
		}),
	)

	fmt.Println(ctrl.Attempt(context.Background()))

	// Output:
	// Gave up after 1 attempt: forbidden
	// exhausted
}

// ExampleOnCooldownTick demonstrates rendering a countdown.
func ExampleOnCooldownTick() {
	clock := timertest.New()

	ctrl := gate.New(func(ctx context.Context) error {
		return errors.New("timeout")
	},
		gate.WithStrategy(gate.StrategyConstant),
		gate.WithCooldown(3*time.Second),
		gate.WithClock(clock),
		gate.WithLogger(quietLogger()),
		gate.OnCooldownStart(func(d time.Duration) {
			fmt.Println("Retry in", d)
		}),
		gate.OnCooldownTick(func(remaining int) {
			fmt.Println("Remaining:", remaining)
		}),
		gate.OnCooldownEnd(func() {
			fmt.Println("Ready")
		}),
	)

	ctrl.Attempt(context.Background())
	clock.Advance(3 * time.Second)

	// Output:
	// Retry in 3s
	// Remaining: 2
	// Remaining: 1
	// Remaining: 0
	// Ready
}

// ExampleDrive demonstrates a caller loop that retries as soon as allowed.
func ExampleDrive() {
	attempts := 0
	ctrl := gate.New(func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	},
		gate.WithMaxAttempts(5),
		gate.WithStrategy(gate.StrategyImmediate),
		gate.WithLogger(quietLogger()),
	)

	fmt.Println(gate.Drive(context.Background(), ctrl))
	fmt.Println("Attempts:", attempts)

	// Output:
	// succeeded
	// Attempts: 3
}

// ExampleStrategy_Backoff demonstrates the cooldown formulas.
func ExampleStrategy_Backoff() {
	for _, s := range []gate.Strategy{
		gate.StrategyImmediate,
		gate.StrategyConstant,
		gate.StrategyLinear,
		gate.StrategyExponential,
	} {
		b := s.Backoff(time.Second, 2)
		fmt.Printf("%-11s %v %v %v %v\n", s, b.Delay(1), b.Delay(2), b.Delay(3), b.Delay(10))
	}

	// Output:
	// immediate   0s 0s 0s 0s
	// constant    1s 1s 1s 1s
	// linear      1s 2s 3s 10s
	// exponential 1s 2s 4s 30s
}

// ExampleWithCap demonstrates capping backoff delays.
func ExampleWithCap() {
	b := gate.WithCap(500*time.Millisecond, gate.Exponential(100*time.Millisecond, 2))

	fmt.Println("Attempt 1:", b.Delay(1))
	fmt.Println("Attempt 2:", b.Delay(2))
	fmt.Println("Attempt 3:", b.Delay(3))
	fmt.Println("Attempt 4:", b.Delay(4)) // Would be 800ms, capped to 500ms

	// Output:
	// Attempt 1: 100ms
	// Attempt 2: 200ms
	// Attempt 3: 400ms
	// Attempt 4: 500ms
}

// ExampleBackoffFunc demonstrates a custom cooldown.
func ExampleBackoffFunc() {
	// Quadratic backoff: delay = base * attempt^2
	b := gate.BackoffFunc(func(attempt int) time.Duration {
		return time.Duration(attempt*attempt) * time.Second
	})

	ctrl := gate.New(func(ctx context.Context) error { return nil }, gate.WithBackoff(b))

	fmt.Println("Attempt 1:", ctrl.Cooldown(1))
	fmt.Println("Attempt 3:", ctrl.Cooldown(3))

	// Output:
	// Attempt 1: 1s
	// Attempt 3: 9s
}
