// Package gate provides a retry gate: a controller that counts attempts of an
// action, enforces a maximum, and imposes a cooldown after each failure.
//
// gate provides:
//
//   - Caller-Triggered Attempts: the controller never retries on its own
//   - Cooldown Strategies: immediate, constant, linear, exponential (capped)
//   - Injectable Clock: drive cooldowns in tests without real sleeps
//   - Lifecycle Hooks and an analytics event stream
//   - Controlled Mode: let the caller own the attempt number
//
// # Quick Start
//
//	ctrl := gate.New(func(ctx context.Context) error {
//	    return client.Reload(ctx)
//	},
//	    gate.WithMaxAttempts(3),
//	    gate.WithStrategy(gate.StrategyExponential),
//	    gate.WithCooldown(time.Second),
//	)
//	defer ctrl.Close()
//
//	// On every click of the retry button:
//	switch ctrl.Attempt(ctx) {
//	case gate.Succeeded:
//	case gate.Failed:    // cooling down; ctrl.State().CooldownRemaining seconds left
//	case gate.Exhausted: // no attempts remain
//	case gate.Rejected:  // in flight, cooling down, or exhausted
//	}
//
// # Gate, Not Scheduler
//
// Each Attempt call is exactly one attempt. A failure starts a cooldown that
// blocks further attempts until it runs out; it does not start the next
// attempt. Drive is provided for callers that want a loop which attempts as
// soon as the gate reopens.
//
// # Cooldown Strategies
//
// With a base cooldown b and multiplier m, the cooldown after attempt n is:
//
//	gate.StrategyImmediate   // 0
//	gate.StrategyConstant    // b
//	gate.StrategyLinear      // b * n
//	gate.StrategyExponential // min(b * m^(n-1), 30s)
//
// A zero base means no cooldown whatever the strategy. The cooldown is
// counted down in whole seconds, rounded up.
//
// Custom backoffs can be composed and passed with WithBackoff:
//
//	gate.WithBackoff(gate.WithCap(10*time.Second, gate.Linear(2*time.Second)))
//
// # Terminal Errors
//
// An action that returns Stop(err) ends the sequence at once:
//
//	if errors.Is(err, ErrForbidden) {
//	    return gate.Stop(err) // retrying will not help
//	}
//
// # Lifecycle Hooks
//
// Hooks are fire-and-forget and run outside the controller's lock:
//
//	gate.OnAfterAttempt(func(ctx context.Context, rec gate.AttemptRecord) { ... })
//	gate.OnMaxAttempts(func(ctx context.Context, attempts int, err error) { ... })
//	gate.OnCooldownStart(func(d time.Duration) { ... })
//	gate.OnCooldownTick(func(remaining int) { ... })
//	gate.OnCooldownEnd(func() { ... })
//	gate.OnEvent(recorder.Observe) // analytics stream; may be given more than once
//
// # Controlled Attempts
//
// WithControlledAttempt lets the caller own the attempt number. The caller
// must then advance it on every failure; see the option for details.
//
// # Teardown
//
// Close cancels a running cooldown timer. Call it when the owning component
// goes away.
package gate
