package quantity

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// Configuration errors returned by New.
var (
	ErrInvalidRange     = errors.New("quantity: min must not exceed max")
	ErrInvalidPrecision = errors.New("quantity: precision must be between 0 and 15")
	ErrInvalidStep      = errors.New("quantity: step must be positive")
)

// Default values.
const (
	DefaultPrecision = 2
	DefaultStep      = 1.0

	maxPrecision = 15
)

// gridEpsilon absorbs float error when deciding whether a value already sits
// on a step multiple.
const gridEpsilon = 1e-9

// Stepper computes bounded increments and decrements for a numeric quantity.
// It holds configuration only; every method is a pure function of its
// arguments, so a Stepper is safe for concurrent use.
type Stepper struct {
	min       float64
	max       float64
	precision int
	step      float64
	smart     bool
	bands     []Band
	disabled  bool
}

// Option configures a Stepper.
type Option func(*Stepper)

// WithRange sets the inclusive bounds.
func WithRange(min, max float64) Option {
	return func(s *Stepper) {
		s.min = min
		s.max = max
	}
}

// WithPrecision sets the number of decimal places results are rounded to.
func WithPrecision(p int) Option {
	return func(s *Stepper) {
		s.precision = p
	}
}

// WithStep sets the fixed step used when smart stepping is off.
func WithStep(step float64) Option {
	return func(s *Stepper) {
		s.step = step
	}
}

// WithSmartStep enables magnitude-dependent steps. With no bands,
// DefaultBands are used. Bands may be given in any order.
func WithSmartStep(bands ...Band) Option {
	return func(s *Stepper) {
		s.smart = true
		if len(bands) == 0 {
			bands = DefaultBands
		}
		s.bands = slices.Clone(bands)
	}
}

// WithDisabled turns both directions into no-ops.
func WithDisabled(disabled bool) Option {
	return func(s *Stepper) {
		s.disabled = disabled
	}
}

// New creates a Stepper. Defaults: range [0, +Inf), precision 2, fixed step 1.
// Contradictory configuration fails here rather than at step time.
func New(opts ...Option) (*Stepper, error) {
	s := &Stepper{
		min:       0,
		max:       math.Inf(1),
		precision: DefaultPrecision,
		step:      DefaultStep,
	}
	for _, opt := range opts {
		opt(s)
	}

	if math.IsNaN(s.min) || math.IsNaN(s.max) || s.min > s.max {
		return nil, fmt.Errorf("%w: min=%v max=%v", ErrInvalidRange, s.min, s.max)
	}
	if s.precision < 0 || s.precision > maxPrecision {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPrecision, s.precision)
	}
	if s.ceil(s.min) > s.floor(s.max) {
		return nil, fmt.Errorf("%w: no value in [%v, %v] at precision %d",
			ErrInvalidRange, s.min, s.max, s.precision)
	}
	if !(s.step > 0) {
		return nil, fmt.Errorf("%w: fixed step %v", ErrInvalidStep, s.step)
	}
	if s.smart {
		for _, b := range s.bands {
			if !(b.Step > 0) {
				return nil, fmt.Errorf("%w: band below %v has step %v", ErrInvalidStep, b.Threshold, b.Step)
			}
		}
		slices.SortStableFunc(s.bands, func(a, b Band) int {
			return cmp.Compare(a.Threshold, b.Threshold)
		})
	}
	return s, nil
}

// Min returns the lower bound.
func (s *Stepper) Min() float64 { return s.min }

// Max returns the upper bound.
func (s *Stepper) Max() float64 { return s.max }

// Precision returns the number of decimal places.
func (s *Stepper) Precision() int { return s.precision }

// ComputeStep returns the step that applies at v.
func (s *Stepper) ComputeStep(v float64) float64 {
	if !s.smart {
		return s.step
	}
	return stepFor(s.bands, v)
}

// CanIncrement reports whether Increment would change v.
func (s *Stepper) CanIncrement(v Value) bool {
	if s.disabled {
		return false
	}
	f, ok := v.Float()
	return !ok || f < s.max
}

// CanDecrement reports whether Decrement would change v.
func (s *Stepper) CanDecrement(v Value) bool {
	if s.disabled {
		return false
	}
	f, ok := v.Float()
	return ok && f > s.min
}

// Increment returns the next value above v.
//
// With smart stepping the result is the next multiple of the step at v that
// is strictly greater than v, so an off-grid value snaps forward to the grid.
// With a fixed step the result is v plus the step. Either way it is clamped to
// max and rounded. An empty v starts at min. v is returned unchanged when
// incrementing is disabled.
func (s *Stepper) Increment(v Value) Value {
	if !s.CanIncrement(v) {
		return v
	}
	f, ok := v.Float()
	if !ok {
		return Num(s.fit(s.min))
	}

	var next float64
	if s.smart {
		step := s.ComputeStep(f)
		next = (math.Floor(f/step+gridEpsilon) + 1) * step
	} else {
		next = f + s.step
	}
	return Num(s.fit(next))
}

// Decrement returns the next value below v; the mirror image of Increment.
// The result is never greater than v and is clamped to min. An empty v is
// returned unchanged.
func (s *Stepper) Decrement(v Value) Value {
	if !s.CanDecrement(v) {
		return v
	}
	f, _ := v.Float()

	var next float64
	if s.smart {
		step := s.ComputeStep(f)
		next = (math.Ceil(f/step-gridEpsilon) - 1) * step
	} else {
		next = f - s.step
	}
	return Num(s.fit(next))
}

// CommitBlur clamps v into range and rounds it, as done when the field loses
// focus. changed reports whether the result differs from v and must be
// emitted. Empty values pass through unchanged.
func (s *Stepper) CommitBlur(v Value) (out Value, changed bool) {
	f, ok := v.Float()
	if !ok {
		return v, false
	}
	c := s.fit(f)
	return Num(c), c != f
}

func (s *Stepper) clamp(f float64) float64 {
	return math.Max(s.min, math.Min(f, s.max))
}

// fit clamps f into range and rounds it. A bound that is not a multiple of
// the precision is met at the nearest multiple inside the range.
func (s *Stepper) fit(f float64) float64 {
	c := s.round(s.clamp(f))
	if c < s.min {
		c = s.ceil(s.min)
	}
	if c > s.max {
		c = s.floor(s.max)
	}
	return c
}

func (s *Stepper) ceil(f float64) float64 {
	if math.IsInf(f, 0) {
		return f
	}
	pow := math.Pow10(s.precision)
	return math.Ceil(f*pow-gridEpsilon) / pow
}

func (s *Stepper) floor(f float64) float64 {
	if math.IsInf(f, 0) {
		return f
	}
	pow := math.Pow10(s.precision)
	return math.Floor(f*pow+gridEpsilon) / pow
}

func (s *Stepper) round(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	pow := math.Pow10(s.precision)
	return math.Round(f*pow) / pow
}
