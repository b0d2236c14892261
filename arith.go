// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"fmt"
	"math/big"

	"github.com/avdva/fixedpoint/internal/mathutil"
)

// addsubFormat derives the +/- result format. Operands are sign-aligned
// first (an unsigned operand gains one integer bit when the result is
// signed), then one carry bit is added. With this rule the only operation
// that can overflow is unsigned subtraction.
func addsubFormat(a, b Format) Format {
	signed := a.Signed || b.Signed
	ma, mb := a.M, b.M
	if signed && !a.Signed {
		ma++
	}
	if signed && !b.Signed {
		mb++
	}
	return Format{Signed: signed, M: max(ma, mb) + 1, N: max(a.N, b.N)}
}

func (x *FixedPoint) addsub(y *FixedPoint, sub bool) (*FixedPoint, error) {
	f := addsubFormat(x.format, y.format)
	v := new(big.Int).Lsh(x.sval(), uint(f.N-x.format.N))
	w := new(big.Int).Lsh(y.sval(), uint(f.N-y.format.N))
	msg := "addition causes overflow"
	if sub {
		v.Sub(v, w)
		msg = "unsigned subtraction causes overflow"
	} else {
		v.Add(v, w)
	}
	return build(v, f.N, f, x.policy, x.rt, msg)
}

// Add returns x + rhs at format (max(m1,m2)+1, max(n1,n2)) after
// sign alignment.
func (x *FixedPoint) Add(rhs Operand) (*FixedPoint, error) {
	y, err := x.resolveRHS(rhs)
	if err != nil {
		return nil, err
	}
	return x.addsub(y, false)
}

// Radd returns lhs + x.
func (x *FixedPoint) Radd(lhs Operand) (*FixedPoint, error) {
	return x.Add(lhs)
}

// Sub returns x - rhs. An unsigned subtraction whose mathematical result
// is negative overflows: clamping yields zero, wrapping yields the
// two's-complement pattern at the result width.
func (x *FixedPoint) Sub(rhs Operand) (*FixedPoint, error) {
	y, err := x.resolveRHS(rhs)
	if err != nil {
		return nil, err
	}
	return x.addsub(y, true)
}

// Rsub returns lhs - x.
func (x *FixedPoint) Rsub(lhs Operand) (*FixedPoint, error) {
	l, err := x.resolveRHS(lhs)
	if err != nil {
		return nil, err
	}
	return l.addsub(x, true)
}

// Mul returns x * rhs at format (m1+m2, n1+n2), which never overflows.
func (x *FixedPoint) Mul(rhs Operand) (*FixedPoint, error) {
	y, err := x.resolveRHS(rhs)
	if err != nil {
		return nil, err
	}
	f := Format{
		Signed: x.format.Signed || y.format.Signed,
		M:      x.format.M + y.format.M,
		N:      x.format.N + y.format.N,
	}
	v := new(big.Int).Mul(x.sval(), y.sval())
	return build(v, f.N, f, x.policy, x.rt, "multiplication causes overflow")
}

// Rmul returns lhs * x.
func (x *FixedPoint) Rmul(lhs Operand) (*FixedPoint, error) {
	return x.Mul(lhs)
}

// Pow returns x to a non-negative native integer exponent, at format
// (m*y, n*y). Any other exponent kind or a negative exponent is fatal.
func (x *FixedPoint) Pow(rhs Operand) (*FixedPoint, error) {
	y, ok := rhs.IntValue()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidExponent, rhs.typeName())
	}
	if y < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidExponent, y)
	}
	if y == 0 {
		f := Format{Signed: x.format.Signed, M: 1, N: 0}
		if f.Signed {
			f.M = 2
		}
		return build(bigOne, 0, f, x.policy, x.rt, "exponentiation causes overflow")
	}
	f := Format{
		Signed: x.format.Signed,
		M:      x.format.M * int(y),
		N:      x.format.N * int(y),
	}
	v := new(big.Int).Exp(x.sval(), big.NewInt(y), nil)
	return build(v, f.N, f, x.policy, x.rt, "exponentiation causes overflow")
}

// Rpow reports that exponentiation of a native base by a fixed-point
// exponent is not supported.
func (x *FixedPoint) Rpow(lhs Operand) (*FixedPoint, error) {
	return nil, fmt.Errorf("%w for ** or pow(): %q and %q",
		ErrUnsupportedOperator, lhs.typeName(), "FixedPoint")
}

// floordivFormat derives the // result format. The fraction width of the
// non-negative branch is ceil(log2(2^(den.m+num.n) - 2^(num.n-den.n))),
// which collapses to den.m+num.n, minus one when the divisor is
// a single bit wide.
func floordivFormat(num, den Format, negative bool) Format {
	if negative {
		return Format{Signed: true, M: num.M + den.N + 1, N: den.M + num.N}
	}
	n := den.M + num.N
	if den.Width() == 1 {
		n--
	}
	f := Format{M: num.M + den.N, N: max(n, 0)}
	if f.Width() == 0 {
		f.M = 1
	}
	return f
}

func (x *FixedPoint) floordiv(y *FixedPoint) (*FixedPoint, error) {
	if y.bits.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	a, b := x.sval(), y.sval()
	f := floordivFormat(x.format, y.format, a.Sign() < 0 || b.Sign() < 0)
	q := mathutil.FloorDiv(
		new(big.Int).Lsh(a, uint(y.format.N)),
		new(big.Int).Lsh(b, uint(x.format.N)),
	)
	return build(q, 0, f, x.policy, x.rt, "floor division causes overflow")
}

func (x *FixedPoint) mod(y *FixedPoint) (*FixedPoint, error) {
	if y.bits.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	f := Format{Signed: y.format.Signed, M: y.format.M, N: max(x.format.N, y.format.N)}
	a := new(big.Int).Lsh(x.sval(), uint(f.N-x.format.N))
	b := new(big.Int).Lsh(y.sval(), uint(f.N-y.format.N))
	_, r := mathutil.FloorDivMod(a, b)
	return build(r, f.N, f, x.policy, x.rt, "modulo causes overflow")
}

// Floordiv returns the exact mathematical floor division of the
// represented values. A zero divisor is fatal.
func (x *FixedPoint) Floordiv(rhs Operand) (*FixedPoint, error) {
	y, err := x.resolveRHS(rhs)
	if err != nil {
		return nil, err
	}
	return x.floordiv(y)
}

// Rfloordiv returns lhs // x.
func (x *FixedPoint) Rfloordiv(lhs Operand) (*FixedPoint, error) {
	l, err := x.resolveRHS(lhs)
	if err != nil {
		return nil, err
	}
	return l.floordiv(x)
}

// Mod returns the exact mathematical modulo of the represented values, at
// format (den.m, max(n1,n2)) with the divisor's signedness. The result has
// the divisor's sign. A zero divisor is fatal.
func (x *FixedPoint) Mod(rhs Operand) (*FixedPoint, error) {
	y, err := x.resolveRHS(rhs)
	if err != nil {
		return nil, err
	}
	return x.mod(y)
}

// Rmod returns lhs % x.
func (x *FixedPoint) Rmod(lhs Operand) (*FixedPoint, error) {
	l, err := x.resolveRHS(lhs)
	if err != nil {
		return nil, err
	}
	return l.mod(x)
}

// Divmod returns (x // rhs, x % rhs). Both components carry exactly the
// bits and formats of the single-operator equivalents.
func (x *FixedPoint) Divmod(rhs Operand) (div, mod *FixedPoint, err error) {
	y, err := x.resolveRHS(rhs)
	if err != nil {
		return nil, nil, err
	}
	if div, err = x.floordiv(y); err != nil {
		return nil, nil, err
	}
	if mod, err = x.mod(y); err != nil {
		return nil, nil, err
	}
	return div, mod, nil
}

// Rdivmod returns (lhs // x, lhs % x).
func (x *FixedPoint) Rdivmod(lhs Operand) (div, mod *FixedPoint, err error) {
	l, err := x.resolveRHS(lhs)
	if err != nil {
		return nil, nil, err
	}
	if div, err = l.floordiv(x); err != nil {
		return nil, nil, err
	}
	if mod, err = l.mod(x); err != nil {
		return nil, nil, err
	}
	return div, mod, nil
}

// callbackOp dispatches an operator with no fixed-point definition through
// the registry. The callback result is returned verbatim, with no format
// validation and no alerts.
func (x *FixedPoint) callbackOp(op OpSym, left, right Operand) (*FixedPoint, error) {
	if cb := x.rt.callback(op); cb != nil {
		return cb(left, right)
	}
	return nil, fmt.Errorf("%w for %s: %q and %q",
		ErrUnsupportedOperator, op, left.typeName(), right.typeName())
}

// Div dispatches true division x / rhs through the callback registry.
func (x *FixedPoint) Div(rhs Operand) (*FixedPoint, error) {
	return x.callbackOp(OpTrueDiv, FP(x), rhs)
}

// Rdiv dispatches lhs / x through the callback registry.
func (x *FixedPoint) Rdiv(lhs Operand) (*FixedPoint, error) {
	return x.callbackOp(OpTrueDiv, lhs, FP(x))
}

// MatMul dispatches x @ rhs through the callback registry.
func (x *FixedPoint) MatMul(rhs Operand) (*FixedPoint, error) {
	return x.callbackOp(OpMatMul, FP(x), rhs)
}

// RmatMul dispatches lhs @ x through the callback registry.
func (x *FixedPoint) RmatMul(lhs Operand) (*FixedPoint, error) {
	return x.callbackOp(OpMatMul, lhs, FP(x))
}

// IAdd sets x to x + rhs.
func (x *FixedPoint) IAdd(rhs Operand) error {
	y, err := x.Add(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// ISub sets x to x - rhs.
func (x *FixedPoint) ISub(rhs Operand) error {
	y, err := x.Sub(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IMul sets x to x * rhs.
func (x *FixedPoint) IMul(rhs Operand) error {
	y, err := x.Mul(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IPow sets x to x ** rhs.
func (x *FixedPoint) IPow(rhs Operand) error {
	y, err := x.Pow(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IFloordiv sets x to x // rhs.
func (x *FixedPoint) IFloordiv(rhs Operand) error {
	y, err := x.Floordiv(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IMod sets x to x % rhs.
func (x *FixedPoint) IMod(rhs Operand) error {
	y, err := x.Mod(rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IDiv dispatches x /= rhs through the callback registry and assigns the
// result to x.
func (x *FixedPoint) IDiv(rhs Operand) error {
	y, err := x.callbackOp(OpTrueDivAssign, FP(x), rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}

// IMatMul dispatches x @= rhs through the callback registry and assigns
// the result to x.
func (x *FixedPoint) IMatMul(rhs Operand) error {
	y, err := x.callbackOp(OpMatMulAssign, FP(x), rhs)
	if err != nil {
		return err
	}
	x.assign(y)
	return nil
}
