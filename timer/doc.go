// Package timer provides cancellable timers driven by an injectable Clock.
//
// Three shapes are offered, all built on Clock.AfterFunc:
//
//   - Ticker: fires a callback every interval until cancelled
//   - Countdown: counts whole seconds down to zero, then reports completion
//   - Repeater: waits an initial delay, then repeats at a fixed interval
//     (press-and-hold)
//
// Every timer exposes an explicit cancel operation, and restarting a running
// timer always cancels the previous schedule first:
//
//	hold := timer.NewRepeater(nil, 0, 0) // 400ms delay, 75ms interval
//	_ = hold.Start(func() { step() })
//	defer hold.Stop()
//
// Inject timertest.Clock to drive timers deterministically in tests.
package timer
