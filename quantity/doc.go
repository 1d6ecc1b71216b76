// Package quantity implements a bounded numeric quantity with stepping.
//
// A Stepper holds the rules: range, precision, and either a fixed step or
// magnitude-dependent step bands ("smart step"). Its methods are pure:
//
//	s, err := quantity.New(
//	    quantity.WithRange(0.01, 10000),
//	    quantity.WithSmartStep(), // 0.25 below 10, 0.5 below 100, then 1
//	)
//	v := s.Increment(quantity.Num(5)) // 5.25
//
// Smart steps snap to the grid in the direction of travel: Increment(5.1)
// is 5.25, Decrement(5.1) is 5.
//
// An Input wraps a Stepper with state: the current value (owned, or read
// from the caller with Controlled), an OnChange sink, text entry via Type,
// clamping on Blur, and press-and-hold repetition via StartHold/StopHold.
//
// Value distinguishes Empty from zero. Malformed text is never an error: it
// is ignored and the previous value stays.
package quantity
