// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"fmt"
	"math/big"
	"strings"
)

type opKind uint8

const (
	kindFixed opKind = iota
	kindInt
	kindFloat
)

// Operand adapts one of the closed set of operand kinds — a fixed-point
// value, a native integer, or a native float — for use on either side of
// an operator. Use FP, Int, or Float to construct one.
type Operand struct {
	kind opKind
	fp   *FixedPoint
	i    int64
	f    float64
}

// FP wraps a fixed-point operand.
func FP(x *FixedPoint) Operand { return Operand{kind: kindFixed, fp: x} }

// Int wraps a native integer operand.
func Int(v int64) Operand { return Operand{kind: kindInt, i: v} }

// Float wraps a native float operand.
func Float(v float64) Operand { return Operand{kind: kindFloat, f: v} }

// Fixed returns the fixed-point operand, if that is the kind.
func (o Operand) Fixed() (*FixedPoint, bool) { return o.fp, o.kind == kindFixed }

// IntValue returns the integer operand, if that is the kind.
func (o Operand) IntValue() (int64, bool) { return o.i, o.kind == kindInt }

// FloatValue returns the float operand, if that is the kind.
func (o Operand) FloatValue() (float64, bool) { return o.f, o.kind == kindFloat }

func (o Operand) typeName() string {
	switch o.kind {
	case kindInt:
		return "int"
	case kindFloat:
		return "float"
	}
	return "FixedPoint"
}

// promote converts a native operand to a fixed-point value using like's
// policy and runtime; a fixed-point operand is returned as is. The
// implicit cast alert fires when the promotion loses precision.
func (o Operand) promote(like *FixedPoint) (*FixedPoint, error) {
	switch o.kind {
	case kindFixed:
		if o.fp == nil {
			return nil, fmt.Errorf("%w: nil FixedPoint operand", ErrTypeConformance)
		}
		return o.fp, nil
	case kindInt:
		return FromInt(o.i, WithPolicy(like.policy), WithRuntime(like.rt))
	default:
		y, err := FromFloat(o.f, WithPolicy(like.policy), WithRuntime(like.rt))
		if err != nil {
			return nil, err
		}
		if exact := new(big.Rat).SetFloat64(o.f); y.Rat().Cmp(exact) != 0 {
			err := fmt.Errorf("%w: implicit cast of %v to %s loses precision", ErrOverflow, o.f, y.format)
			if ferr := like.rt.alert(like.policy.ImplicitCastAlert, y.sn, err); ferr != nil {
				return nil, ferr
			}
		}
		return y, nil
	}
}

// resolveRHS prepares the right-hand operand of a binary operator: native
// operands are promoted with x's policy, fixed-point operands are checked
// for property mismatch against x.
func (x *FixedPoint) resolveRHS(rhs Operand) (*FixedPoint, error) {
	y, err := rhs.promote(x)
	if err != nil {
		return nil, err
	}
	if rhs.kind == kindFixed {
		if err := checkMismatch(x, y); err != nil {
			return nil, err
		}
	}
	return y, nil
}

// checkMismatch diffs the operand property sets. On any difference the
// stricter of the two mismatch alert levels governs; a warning record
// lists the differing property names as a sorted list.
func checkMismatch(l, r *FixedPoint) error {
	names := l.policy.diff(r.policy)
	if len(names) == 0 {
		return nil
	}
	level := stricter(l.policy.MismatchAlert, r.policy.MismatchAlert)
	err := fmt.Errorf("%w: %s", ErrFormatMismatch, strings.Join(names, ", "))
	return l.rt.alert(level, l.sn, err)
}
