package core

import (
	"fmt"
	"math"
)

// Times is an inclusive range of expected call counts.
type Times struct {
	min, max int
}

// AtLeast expects n or more calls.
func AtLeast(n int) Times { return Times{min: n, max: math.MaxInt} }

// AtLeastOnce expects one or more calls.
func AtLeastOnce() Times { return AtLeast(1) }

// AtMost expects between zero and n calls.
func AtMost(n int) Times { return Times{min: 0, max: n} }

// Between expects between lo and hi calls, inclusive.
func Between(lo, hi int) Times { return Times{min: lo, max: hi} }

// Exactly expects n calls.
func Exactly(n int) Times { return Times{min: n, max: n} }

// Never expects no calls.
func Never() Times { return Exactly(0) }

// Once expects exactly one call.
func Once() Times { return Exactly(1) }

// Allows reports whether count falls within the range.
func (t Times) Allows(count int) bool {
	return count >= t.min && count <= t.max
}

// String describes the range for failure messages.
func (t Times) String() string {
	switch {
	case t.min == t.max:
		return fmt.Sprintf("exactly %d", t.min)
	case t.max == math.MaxInt:
		return fmt.Sprintf("at least %d", t.min)
	case t.min == 0:
		return fmt.Sprintf("at most %d", t.max)
	default:
		return fmt.Sprintf("between %d and %d", t.min, t.max)
	}
}
