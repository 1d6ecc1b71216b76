package quantity

import (
	"math"
	"strconv"
	"strings"
)

// Value is a quantity that is either a number or empty. Empty is a distinct
// state: it is never treated as zero or as the minimum in arithmetic.
// The zero Value is empty.
type Value struct {
	n   float64
	set bool
}

// Num returns a numeric Value.
func Num(f float64) Value {
	return Value{n: f, set: true}
}

// Empty returns the empty Value.
func Empty() Value {
	return Value{}
}

// IsEmpty reports whether v holds no number.
func (v Value) IsEmpty() bool {
	return !v.set
}

// Float returns the number and true, or 0 and false when v is empty.
func (v Value) Float() (float64, bool) {
	return v.n, v.set
}

// Equal reports whether v and o hold the same state.
func (v Value) Equal(o Value) bool {
	if v.set != o.set {
		return false
	}
	return !v.set || v.n == o.n
}

// String formats v the way an input field displays it; empty is "".
func (v Value) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatFloat(v.n, 'f', -1, 64)
}

// ParseInput interprets raw field text.
//
// Blank text is Empty. Text that is not a finite number is rejected and ok is
// false; the caller keeps its previous value. Numbers are returned as typed,
// without clamping, so transient out-of-range values survive until blur.
func ParseInput(raw string) (v Value, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Empty(), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	return Num(f), true
}
