// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package fixedpoint implements binary fixed-point numbers with explicit
// integer and fraction bit counts and fully configurable arithmetic
// semantics: rounding mode, overflow resolution, and three independent
// alert channels. It reproduces, bit for bit, the arithmetic behavior of
// hardware fixed-point datapaths, which makes it suitable for verifying
// DSP and FPGA logic against a software model.
//
// A value is a two's-complement bit pattern of width m+n interpreted at
// Qm.n. The bit store is a big integer, so widths are not bounded by a
// machine word. Every operator derives the result format from the operand
// formats (see the operator methods), applies the overflow and rounding
// policy, and reports alerts through the value's Runtime.
package fixedpoint

import (
	"fmt"
	"math"
	"math/big"

	"github.com/avdva/fixedpoint/internal/mathutil"
)

var bigOne = big.NewInt(1)

// Format is an immutable (signed, m, n) triple: m integer bits, including
// the sign bit for signed values, and n fraction bits.
type Format struct {
	Signed bool
	M, N   int
}

// Width returns the total bit width, m+n.
func (f Format) Width() int { return f.M + f.N }

// Bitmask returns 2^(m+n) - 1.
func (f Format) Bitmask() *big.Int { return mathutil.Mask(f.Width()) }

// String returns the canonical Q-format label, "Qm.n", or "UQm.n" for
// unsigned formats.
func (f Format) String() string {
	if f.Signed {
		return fmt.Sprintf("Q%d.%d", f.M, f.N)
	}
	return fmt.Sprintf("UQ%d.%d", f.M, f.N)
}

func (f Format) validate() error {
	switch {
	case f.M < 0 || f.N < 0:
		return fmt.Errorf("%w: negative bit count in %s", ErrTypeConformance, f)
	case f.Width() < 1:
		return fmt.Errorf("%w: zero-width format", ErrTypeConformance)
	case f.Signed && f.M < 1:
		return fmt.Errorf("%w: signed format %s reserves no sign bit", ErrTypeConformance, f)
	}
	return nil
}

// bounds returns the representable range in bit units: the value v is in
// range iff lo <= v*2^n <= hi.
func (f Format) bounds() (lo, hi *big.Int) {
	w := uint(f.Width())
	if f.Signed {
		hi = mathutil.Mask(f.Width() - 1)
		lo = new(big.Int).Lsh(bigOne, w-1)
		lo.Neg(lo)
		return lo, hi
	}
	return new(big.Int), mathutil.Mask(f.Width())
}

// encode returns the two's-complement pattern of v, a scaled integer at
// f.N fraction bits, masked to f's width, and reports whether v fits
// f's range.
func (f Format) encode(v *big.Int) (bits *big.Int, fits bool) {
	lo, hi := f.bounds()
	fits = v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
	mod := new(big.Int).Lsh(bigOne, uint(f.Width()))
	bits = new(big.Int).Mod(v, mod)
	return bits, fits
}

// clampBits returns the pattern of the minimum (neg) or maximum
// representable value.
func (f Format) clampBits(neg bool) *big.Int {
	if !neg {
		if f.Signed {
			return mathutil.Mask(f.Width() - 1)
		}
		return mathutil.Mask(f.Width())
	}
	if f.Signed {
		return new(big.Int).Lsh(bigOne, uint(f.Width()-1))
	}
	return new(big.Int)
}

// FixedPoint is a binary fixed-point number. The zero value is not usable;
// use one of the From constructors. Binary and unary operators return new
// values; the I-prefixed variants mutate the receiver in place. Instances
// are not safe for concurrent mutation.
type FixedPoint struct {
	format Format
	bits   *big.Int
	policy Policy
	sn     uint64
	rt     *Runtime
}

// FromFloat returns a value decoding val. Without WithFormat, the format is
// inferred via MinM/MinN so that the decomposition is exact. Non-finite
// values are rejected.
func FromFloat(val float64, opts ...Option) (*FixedPoint, error) {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return nil, fmt.Errorf("%w: non-finite float", ErrTypeConformance)
	}
	r := new(big.Rat).SetFloat64(val)
	return fromRat(r, fmt.Sprintf("%v", val), opts)
}

// FromInt returns a value decoding the integer val.
func FromInt(val int64, opts ...Option) (*FixedPoint, error) {
	return FromBigInt(big.NewInt(val), opts...)
}

// FromBigInt returns a value decoding the integer val.
func FromBigInt(val *big.Int, opts ...Option) (*FixedPoint, error) {
	return fromRat(new(big.Rat).SetInt(val), val.String(), opts)
}

// fromRat decodes an exact rational whose denominator is a power of two.
func fromRat(r *big.Rat, desc string, opts []Option) (*FixedPoint, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	rt := o.rt
	if rt == nil {
		rt = defaultRuntime
	}
	nFrom := r.Denom().BitLen() - 1
	f := Format{Signed: r.Sign() < 0, M: mathutil.IntBits(mathutil.FloorRat(r)), N: nFrom}
	if o.format != nil {
		f = *o.format
	} else if f.Width() == 0 {
		f.M = 1
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	p := o.policy(f.Signed)
	return build(r.Num(), nFrom, f, p, rt, fmt.Sprintf("%s does not fit in %s", desc, f))
}

// build constructs a value from an exact scaled integer v at nFrom fraction
// bits, quantizing to f and resolving overflow per policy. Alert records are
// tagged with the new value's serial number.
func build(v *big.Int, nFrom int, f Format, p Policy, rt *Runtime, overflowMsg string) (*FixedPoint, error) {
	x := &FixedPoint{format: f, policy: p, rt: rt, sn: rt.nextSerial()}
	q := quantize(v, nFrom, f.N, p.Rounding)
	bits, fits := f.encode(q)
	if !fits {
		err := fmt.Errorf("%w: %s", ErrOverflow, overflowMsg)
		if ferr := rt.alert(p.OverflowAlert, x.sn, err); ferr != nil {
			return nil, ferr
		}
		if p.Overflow == OverflowClamp {
			bits = f.clampBits(q.Sign() < 0)
		}
	}
	x.bits = bits
	return x, nil
}

// quantize rescales v from nFrom to nTo fraction bits, rounding dropped
// bits per mode.
func quantize(v *big.Int, nFrom, nTo int, mode Rounding) *big.Int {
	if nTo >= nFrom {
		return new(big.Int).Lsh(v, uint(nTo-nFrom))
	}
	den := new(big.Int).Lsh(bigOne, uint(nFrom-nTo))
	return roundQuo(v, den, mode)
}

// roundQuo returns v/den rounded per mode. den must be positive.
func roundQuo(v, den *big.Int, mode Rounding) *big.Int {
	q, r := mathutil.FloorDivMod(v, den)
	if r.Sign() == 0 {
		return q
	}
	// compare the remainder against den/2 without halving: c = cmp(2r, den)
	c := new(big.Int).Lsh(r, 1).Cmp(den)
	up := func() *big.Int { return q.Add(q, bigOne) }
	switch mode {
	case RoundDown:
	case RoundUp:
		return up()
	case RoundIn:
		if v.Sign() < 0 {
			return up()
		}
	case RoundNearest:
		if c >= 0 {
			return up()
		}
	case RoundOut:
		if c > 0 || c == 0 && v.Sign() >= 0 {
			return up()
		}
	case RoundConvergent:
		if c > 0 || c == 0 && q.Bit(0) == 1 {
			return up()
		}
	}
	return q
}

// Copy returns a clone of x with identical format, policy and bits, and a
// fresh serial number.
func (x *FixedPoint) Copy() *FixedPoint {
	return &FixedPoint{
		format: x.format,
		bits:   new(big.Int).Set(x.bits),
		policy: x.policy,
		sn:     x.rt.nextSerial(),
		rt:     x.rt,
	}
}

// sval returns the two's-complement interpretation of the bit pattern.
func (x *FixedPoint) sval() *big.Int {
	v := new(big.Int).Set(x.bits)
	w := x.format.Width()
	if x.format.Signed && v.Bit(w-1) == 1 {
		v.Sub(v, new(big.Int).Lsh(bigOne, uint(w)))
	}
	return v
}

// Rat returns the represented rational value, sval / 2^n.
func (x *FixedPoint) Rat() *big.Rat {
	return new(big.Rat).SetFrac(x.sval(), new(big.Int).Lsh(bigOne, uint(x.format.N)))
}

// Float64 returns the nearest float64 to the represented value. The result
// is exact whenever the value fits a float64 mantissa.
func (x *FixedPoint) Float64() float64 {
	f, _ := x.Rat().Float64()
	return f
}

// BigInt returns the integer part of the value, fraction truncated
// toward zero.
func (x *FixedPoint) BigInt() *big.Int {
	return new(big.Int).Quo(x.sval(), new(big.Int).Lsh(bigOne, uint(x.format.N)))
}

// Signed reports whether the format reserves a sign bit.
func (x *FixedPoint) Signed() bool { return x.format.Signed }

// M returns the integer bit count.
func (x *FixedPoint) M() int { return x.format.M }

// N returns the fraction bit count.
func (x *FixedPoint) N() int { return x.format.N }

// Format returns the (signed, m, n) triple.
func (x *FixedPoint) Format() Format { return x.format }

// Len returns the total bit width, m+n.
func (x *FixedPoint) Len() int { return x.format.Width() }

// Bitmask returns 2^(m+n) - 1.
func (x *FixedPoint) Bitmask() *big.Int { return x.format.Bitmask() }

// Bits returns a copy of the raw bit pattern.
func (x *FixedPoint) Bits() *big.Int { return new(big.Int).Set(x.bits) }

// MSB returns the most significant bit of the pattern.
func (x *FixedPoint) MSB() uint { return x.bits.Bit(x.format.Width() - 1) }

// Serial returns the instance serial number. It is used only for log
// correlation, never for equality or ordering.
func (x *FixedPoint) Serial() uint64 { return x.sn }

// Policy returns the value's property set.
func (x *FixedPoint) Policy() Policy { return x.policy }

// Runtime returns the Runtime the value is attached to.
func (x *FixedPoint) Runtime() *Runtime { return x.rt }

// QFormat returns the canonical Q-format label.
func (x *FixedPoint) QFormat() string { return x.format.String() }

// Clamped reports whether the value sits at the minimum or maximum
// representable value of its format.
func (x *FixedPoint) Clamped() bool {
	lo, hi := x.format.bounds()
	v := x.sval()
	return v.Cmp(lo) == 0 || v.Cmp(hi) == 0
}

// GoString returns a debug representation.
func (x *FixedPoint) GoString() string {
	return fmt.Sprintf("%s [%s sn=%d]", x.String(), x.format, x.sn)
}

// Resize requantizes the value in place to m integer and n fraction bits,
// applying the policy rounding and overflow modes. Signedness is preserved.
func (x *FixedPoint) Resize(m, n int) error {
	f := Format{Signed: x.format.Signed, M: m, N: n}
	if err := f.validate(); err != nil {
		return err
	}
	y, err := build(x.sval(), x.format.N, f, x.policy, x.rt,
		fmt.Sprintf("resizing to %s causes overflow", f))
	if err != nil {
		return err
	}
	x.format, x.bits = y.format, y.bits
	return nil
}

// assign overwrites the receiver with y's format and bits, keeping the
// serial number. In-place operators funnel through here.
func (x *FixedPoint) assign(y *FixedPoint) {
	x.format = y.format
	x.bits = y.bits
	x.policy = y.policy
}

// Guard is a scoped mutation block. Between Begin and Commit the prior
// state is retained; Rollback restores it. Abnormal exits roll back:
//
//	g := x.Begin()
//	defer g.Rollback()
//	if err := x.IXor(FP(y)); err != nil {
//		return err
//	}
//	g.Commit()
type Guard struct {
	x      *FixedPoint
	format Format
	bits   *big.Int
	policy Policy
	done   bool
}

// Begin opens a scoped mutation block on x.
func (x *FixedPoint) Begin() *Guard {
	return &Guard{x: x, format: x.format, bits: new(big.Int).Set(x.bits), policy: x.policy}
}

// Commit keeps the mutations made since Begin.
func (g *Guard) Commit() { g.done = true }

// Rollback restores the state captured at Begin. It is a no-op after
// Commit, so it can be deferred unconditionally.
func (g *Guard) Rollback() {
	if g.done {
		return
	}
	g.x.format, g.x.bits, g.x.policy = g.format, g.bits, g.policy
	g.done = true
}

// Atomic runs fn inside a scoped mutation block: if fn returns an error,
// x is restored to its prior state; otherwise the new state is committed.
func (x *FixedPoint) Atomic(fn func(*FixedPoint) error) error {
	g := x.Begin()
	defer g.Rollback()
	if err := fn(x); err != nil {
		return err
	}
	g.Commit()
	return nil
}

// MinM returns the minimal integer bit count, including a sign bit for
// negative values, needed to represent val's integer part without overflow.
func MinM(val float64) int { return mathutil.MinM(val) }

// MinN returns the minimal fraction bit count needed to represent val's
// fractional part exactly.
func MinN(val float64) int { return mathutil.MinN(val) }
