// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"fmt"
	"log/slog"
	"math/big"
)

func (x *FixedPoint) shiftAmount(rhs Operand) (int64, error) {
	s, ok := rhs.IntValue()
	if !ok {
		return 0, fmt.Errorf("%w: expected int; got %s", ErrTypeConformance, rhs.typeName())
	}
	return s, nil
}

func (x *FixedPoint) lshBy(s int64) *FixedPoint {
	y := x.Copy()
	if s >= int64(x.Len()) {
		y.bits = new(big.Int)
		return y
	}
	y.bits = new(big.Int).Lsh(x.bits, uint(s))
	y.bits.And(y.bits, x.Bitmask())
	return y
}

func (x *FixedPoint) rshBy(s int64) *FixedPoint {
	y := x.Copy()
	if s > int64(x.Len()) {
		s = int64(x.Len())
	}
	// on a signed value with the sign bit set this is an arithmetic,
	// sign-extending shift
	v := new(big.Int).Rsh(x.sval(), uint(s))
	y.bits, _ = x.format.encode(v)
	return y
}

// Lsh returns x shifted left by a native integer amount, truncated to the
// current width. A negative amount shifts right: x << s == x >> -s.
func (x *FixedPoint) Lsh(rhs Operand) (*FixedPoint, error) {
	s, err := x.shiftAmount(rhs)
	if err != nil {
		return nil, err
	}
	if s < 0 {
		return x.rshBy(-s), nil
	}
	return x.lshBy(s), nil
}

// Rsh returns x shifted right by a native integer amount; arithmetic when
// the value is signed and negative, logical otherwise. A negative amount
// shifts left: x >> s == x << -s.
func (x *FixedPoint) Rsh(rhs Operand) (*FixedPoint, error) {
	s, err := x.shiftAmount(rhs)
	if err != nil {
		return nil, err
	}
	if s < 0 {
		return x.lshBy(-s), nil
	}
	return x.rshBy(s), nil
}

// Rlsh reports that a fixed-point value cannot be a left-shift amount.
func (x *FixedPoint) Rlsh(lhs Operand) (*FixedPoint, error) {
	return nil, fmt.Errorf("%w for <<: %q and %q",
		ErrUnsupportedOperator, lhs.typeName(), "FixedPoint")
}

// Rrsh reports that a fixed-point value cannot be a right-shift amount.
func (x *FixedPoint) Rrsh(lhs Operand) (*FixedPoint, error) {
	return nil, fmt.Errorf("%w for >>: %q and %q",
		ErrUnsupportedOperator, lhs.typeName(), "FixedPoint")
}

// ILsh sets x to x << rhs.
func (x *FixedPoint) ILsh(rhs Operand) error {
	y, err := x.Lsh(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IRsh sets x to x >> rhs.
func (x *FixedPoint) IRsh(rhs Operand) error {
	y, err := x.Rsh(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// bitwiseOperand accepts a fixed-point or native integer right-hand side
// and returns its raw pattern. Fixed-point operands are mismatch-checked.
func (x *FixedPoint) bitwiseOperand(rhs Operand) (*big.Int, error) {
	switch rhs.kind {
	case kindFixed:
		if rhs.fp == nil {
			return nil, fmt.Errorf("%w: nil FixedPoint operand", ErrTypeConformance)
		}
		if err := checkMismatch(x, rhs.fp); err != nil {
			return nil, err
		}
		return rhs.fp.bits, nil
	case kindInt:
		return big.NewInt(rhs.i), nil
	}
	return nil, fmt.Errorf("%w: expected int or FixedPoint; got %s", ErrTypeConformance, rhs.typeName())
}

func (x *FixedPoint) bitwise(rhs Operand, op func(z, a, b *big.Int) *big.Int) (*FixedPoint, error) {
	b, err := x.bitwiseOperand(rhs)
	if err != nil {
		return nil, err
	}
	y := x.Copy()
	y.bits = op(new(big.Int), x.bits, b)
	y.bits.And(y.bits, x.Bitmask())
	return y, nil
}

// And returns x & rhs: x's format is preserved, only bits change, masked
// to x's own width.
func (x *FixedPoint) And(rhs Operand) (*FixedPoint, error) {
	return x.bitwise(rhs, (*big.Int).And)
}

// Or returns x | rhs at x's format.
func (x *FixedPoint) Or(rhs Operand) (*FixedPoint, error) {
	return x.bitwise(rhs, (*big.Int).Or)
}

// Xor returns x ^ rhs at x's format.
func (x *FixedPoint) Xor(rhs Operand) (*FixedPoint, error) {
	return x.bitwise(rhs, (*big.Int).Xor)
}

// IAnd sets x to x & rhs.
func (x *FixedPoint) IAnd(rhs Operand) error {
	y, err := x.And(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IOr sets x to x | rhs.
func (x *FixedPoint) IOr(rhs Operand) error {
	y, err := x.Or(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IXor sets x to x ^ rhs.
func (x *FixedPoint) IXor(rhs Operand) error {
	y, err := x.Xor(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// Invert returns the one's complement of x at the same format:
// Invert(x).Bits() ^ x.Bits() == x.Bitmask().
func (x *FixedPoint) Invert() *FixedPoint {
	y := x.Copy()
	y.bits.Xor(y.bits, x.Bitmask())
	return y
}

// Pos returns a copy of x; every property except the serial number
// is equal.
func (x *FixedPoint) Pos() *FixedPoint {
	return x.Copy()
}

// Neg returns -x. Negating an unsigned value is fatal. Negating the
// minimum representable value overflows: a fatal overflow alert aborts,
// otherwise m grows by one to accommodate the result, and on the warning
// level two records are emitted: the overflow, then the format adjustment.
func (x *FixedPoint) Neg() (*FixedPoint, error) {
	if !x.format.Signed {
		return nil, ErrNegationOfUnsigned
	}
	f := x.format
	if x.bits.Cmp(f.clampBits(true)) == 0 {
		err := fmt.Errorf("%w: negating %s (%s) causes overflow", ErrOverflow, x.String(), f)
		if ferr := x.rt.alert(x.policy.OverflowAlert, x.sn, err); ferr != nil {
			return nil, ferr
		}
		old := f
		f.M++
		if x.policy.OverflowAlert == AlertWarning {
			x.rt.warn(x.sn, fmt.Sprintf("adjusting Q format to %s to allow negation", f),
				slog.String("old_format", old.String()),
				slog.String("new_format", f.String()))
		}
	}
	v := new(big.Int).Neg(x.sval())
	return build(v, f.N, f, x.policy, x.rt, "negation causes overflow")
}

// Abs returns the absolute value of x. Negative values follow the
// negation rules, including minimum-value growth.
func (x *FixedPoint) Abs() (*FixedPoint, error) {
	if x.sval().Sign() < 0 {
		return x.Neg()
	}
	return x.Copy(), nil
}
