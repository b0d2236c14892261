// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avdva/fixedpoint/internal/mathutil"
)

// String returns the raw bit pattern rendered in the configured base,
// zero-padded to the full width. Bases 2, 8 and 16 carry the standard
// 0b/0o/0x prefix; base 10 is plain.
func (x *FixedPoint) String() string {
	return formatBits(x.bits, x.policy.StrBase, x.Len())
}

func formatBits(bits *big.Int, base StrBase, width int) string {
	switch base {
	case Base2:
		return "0b" + pad(bits.Text(2), width)
	case Base8:
		return "0o" + pad(bits.Text(8), (width+2)/3)
	case Base16:
		return "0x" + pad(bits.Text(16), (width+3)/4)
	}
	return bits.Text(10)
}

func pad(s string, digits int) string {
	if len(s) >= digits {
		return s
	}
	return strings.Repeat("0", digits-len(s)) + s
}

// parseBits parses a bit-pattern literal. A 0b/0o/0x prefix selects the
// base; an unprefixed literal is read in the configured base. The pattern
// is unsigned raw bits and must fit the width.
func parseBits(s string, base StrBase, width int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty bit pattern", ErrTypeConformance)
	}
	if s[0] == '-' {
		return nil, fmt.Errorf("%w: bit pattern cannot be negative", ErrTypeConformance)
	}
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B':
			base, s = Base2, s[2:]
		case 'o', 'O':
			base, s = Base8, s[2:]
		case 'x', 'X':
			base, s = Base16, s[2:]
		}
	}
	if !base.valid() {
		return nil, fmt.Errorf("%w: unsupported string base %d", ErrTypeConformance, base)
	}
	v, ok := new(big.Int).SetString(s, int(base))
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a base-%d bit pattern", ErrTypeConformance, s, base)
	}
	if v.BitLen() > width {
		return nil, fmt.Errorf("%w: pattern %q exceeds %d bits", ErrOverflow, s, width)
	}
	return v, nil
}

// FromString returns a value whose bit pattern is decoded from a string
// literal at an explicit (signed, m, n) format. The literal is raw bits,
// not a numeric value: FromString("0b101", false, 2, 1) is UQ2.1 2.5.
func FromString(s string, signed bool, m, n int, opts ...Option) (*FixedPoint, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	f := Format{Signed: signed, M: m, N: n}
	if o.format != nil {
		f = *o.format
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	rt := o.rt
	if rt == nil {
		rt = defaultRuntime
	}
	p := o.policy(f.Signed)
	bits, err := parseBits(s, p.StrBase, f.Width())
	if err != nil {
		return nil, err
	}
	return &FixedPoint{format: f, bits: bits, policy: p, sn: rt.nextSerial(), rt: rt}, nil
}

// SetFromString overwrites the bit pattern from a string literal, leaving
// format and policy unchanged. An over-wide pattern is a fatal overflow.
func (x *FixedPoint) SetFromString(s string) error {
	bits, err := parseBits(s, x.policy.StrBase, x.Len())
	if err != nil {
		return err
	}
	x.bits = bits
	return nil
}

// Decimal returns the exact decimal representation of the value:
// sval * 5^n scaled by 10^-n.
func (x *FixedPoint) Decimal() decimal.Decimal {
	coef := new(big.Int).Mul(x.sval(), mathutil.Pow5(x.format.N))
	return decimal.NewFromBigInt(coef, int32(-x.format.N))
}

// FromDecimal returns a value decoding d. Without an explicit format, d
// must be exactly representable in binary (its reduced denominator a power
// of two); with WithFormat, the policy rounding mode applies.
func FromDecimal(d decimal.Decimal, opts ...Option) (*FixedPoint, error) {
	num := new(big.Int).Set(d.Coefficient())
	den := bigOne
	if exp := int64(d.Exponent()); exp >= 0 {
		num.Mul(num, pow10(exp))
	} else {
		den = pow10(-exp)
	}
	r := new(big.Rat).SetFrac(num, den)
	if isPow2(r.Denom()) {
		return fromRat(r, d.String(), opts)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.format == nil {
		return nil, fmt.Errorf("%w: %s is not binary-representable; supply a format",
			ErrTypeConformance, d)
	}
	f := *o.format
	if err := f.validate(); err != nil {
		return nil, err
	}
	rt := o.rt
	if rt == nil {
		rt = defaultRuntime
	}
	p := o.policy(f.Signed)
	v := roundQuo(new(big.Int).Lsh(r.Num(), uint(f.N)), r.Denom(), p.Rounding)
	return build(v, f.N, f, p, rt, fmt.Sprintf("%s does not fit in %s", d, f))
}

func pow10(e int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(e), nil)
}

func isPow2(v *big.Int) bool {
	return v.Sign() > 0 && new(big.Int).And(v, new(big.Int).Sub(v, bigOne)).Sign() == 0
}
