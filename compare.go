// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"math"
	"math/big"
)

// cmp compares the represented rational values, not raw bit patterns.
// ok is false only when rhs is a NaN float, which compares unordered.
// Comparisons are read-only and never trigger mismatch or cast alerts.
func (x *FixedPoint) cmp(rhs Operand) (c int, ok bool) {
	switch rhs.kind {
	case kindFixed:
		return x.Rat().Cmp(rhs.fp.Rat()), true
	case kindInt:
		return x.Rat().Cmp(new(big.Rat).SetInt64(rhs.i)), true
	default:
		switch f := rhs.f; {
		case math.IsNaN(f):
			return 0, false
		case math.IsInf(f, 1):
			return -1, true
		case math.IsInf(f, -1):
			return 1, true
		default:
			return x.Rat().Cmp(new(big.Rat).SetFloat64(f)), true
		}
	}
}

// Eq reports whether x == rhs by represented value, regardless of format.
func (x *FixedPoint) Eq(rhs Operand) bool {
	c, ok := x.cmp(rhs)
	return ok && c == 0
}

// Ne reports whether x != rhs by represented value.
func (x *FixedPoint) Ne(rhs Operand) bool {
	c, ok := x.cmp(rhs)
	return !ok || c != 0
}

// Lt reports whether x < rhs by represented value.
func (x *FixedPoint) Lt(rhs Operand) bool {
	c, ok := x.cmp(rhs)
	return ok && c < 0
}

// Le reports whether x <= rhs by represented value.
func (x *FixedPoint) Le(rhs Operand) bool {
	c, ok := x.cmp(rhs)
	return ok && c <= 0
}

// Gt reports whether x > rhs by represented value.
func (x *FixedPoint) Gt(rhs Operand) bool {
	c, ok := x.cmp(rhs)
	return ok && c > 0
}

// Ge reports whether x >= rhs by represented value.
func (x *FixedPoint) Ge(rhs Operand) bool {
	c, ok := x.cmp(rhs)
	return ok && c >= 0
}
