package gate

import "context"

// Drive attempts repeatedly until the action succeeds, the controller is
// exhausted, or ctx is done, waiting out each cooldown in between.
//
// Drive is a caller-side loop. It stands in for a user pressing retry as
// soon as the control re-enables; the Controller itself never schedules
// attempts. It returns the last outcome; Failed means ctx ended first.
func Drive(ctx context.Context, c *Controller) Outcome {
	for {
		out := c.Attempt(ctx)
		if out != Failed {
			return out
		}
		if err := c.Wait(ctx); err != nil {
			return Failed
		}
		if ctx.Err() != nil {
			return Failed
		}
	}
}
