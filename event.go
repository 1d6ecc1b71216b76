package gate

import (
	"time"
)

// AttemptRecord describes one completed attempt. Records are immutable.
type AttemptRecord struct {
	ID       string
	Attempt  int
	Time     time.Time
	Duration time.Duration
	Success  bool
	Err      error
}

// Outcome is the result of a call to Attempt.
type Outcome int

// Attempt outcomes.
const (
	// Rejected means the attempt was not started: one is in flight, the
	// controller is cooling down, exhausted, or closed.
	Rejected Outcome = iota
	Succeeded
	// Failed means the action failed and attempts remain.
	Failed
	// Exhausted means the action failed and no attempts remain.
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// EventType names an analytics event.
type EventType string

// Analytics event types.
const (
	EventRejected      EventType = "rejected"
	EventBeforeAttempt EventType = "before_attempt"
	EventAfterAttempt  EventType = "after_attempt"
	EventMaxAttempts   EventType = "max_attempts"
	EventCooldownStart EventType = "cooldown_start"
	EventCooldownTick  EventType = "cooldown_tick"
	EventCooldownEnd   EventType = "cooldown_end"
)

// Event is one entry of a controller's analytics stream. Fields that do not
// apply to a given type are zero.
type Event struct {
	ID          string
	Type        EventType
	Controller  string
	Time        time.Time
	Attempt     int
	MaxAttempts int
	Cooldown    time.Duration
	Remaining   int
	Duration    time.Duration
	Success     bool
	Err         error
}

// State is a point-in-time snapshot of a controller.
type State struct {
	Attempt           int
	MaxAttempts       int
	CooldownRemaining int
	Retrying          bool
	Exhausted         bool
	Disabled          bool
	Loading           bool
}
