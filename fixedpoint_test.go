// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mk builds a value from an explicit bit pattern, failing the test on error.
func mk(t *testing.T, s string, signed bool, m, n int, opts ...Option) *FixedPoint {
	t.Helper()
	x, err := FromString(s, signed, m, n, opts...)
	if err != nil {
		t.Fatalf("FromString(%q, %v, %d, %d): %v", s, signed, m, n, err)
	}
	return x
}

func TestFromFloatInference(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		f      float64
		signed bool
		m, n   int
		bits   int64
	}{
		{0, false, 1, 0, 0},
		{1, false, 1, 0, 1},
		{2.5, false, 2, 1, 0b101},
		{0.75, false, 0, 2, 0b11},
		{-2.5, true, 3, 1, 0b1011},
		{-2, true, 2, 0, 0b10},
		{-0.375, true, 1, 3, 0b1101},
		{7, false, 3, 0, 0b111},
		{-1, true, 1, 0, 0b1},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			x, err := FromFloat(test.f)
			a.NoError(err)
			a.Equal(test.signed, x.Signed())
			a.Equal(test.m, x.M())
			a.Equal(test.n, x.N())
			a.Equal(big.NewInt(test.bits), x.Bits())
			a.Equal(test.f, x.Float64())
		})
	}
}

func TestFromFloatNonFinite(t *testing.T) {
	a := assert.New(t)
	for i, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := FromFloat(f)
			a.ErrorIs(err, ErrTypeConformance)
		})
	}
}

func TestFromFloatRounding(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		f      float64
		signed bool
		m      int
		mode   Rounding
		want   float64
	}{
		{2.5, false, 2, RoundDown, 2},
		{2.5, false, 2, RoundUp, 3},
		{2.5, false, 2, RoundIn, 2},
		{2.5, false, 2, RoundOut, 3},
		{2.5, false, 2, RoundNearest, 3},
		{2.5, false, 2, RoundConvergent, 2},
		{-2.5, true, 3, RoundDown, -3},
		{-2.5, true, 3, RoundUp, -2},
		{-2.5, true, 3, RoundIn, -2},
		{-2.5, true, 3, RoundOut, -3},
		{-2.5, true, 3, RoundNearest, -2},
		{-2.5, true, 3, RoundConvergent, -2},
		{1.25, false, 1, RoundConvergent, 1},
		{1.75, false, 2, RoundConvergent, 2},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			x, err := FromFloat(test.f, WithFormat(test.signed, test.m, 0), WithRounding(test.mode))
			a.NoError(err)
			a.Equal(test.want, x.Float64())
		})
	}
}

func TestConstructionOverflow(t *testing.T) {
	a := assert.New(t)

	_, err := FromFloat(3.5, WithFormat(false, 2, 0))
	a.ErrorIs(err, ErrOverflow)

	x, err := FromFloat(3.5, WithFormat(false, 2, 0), WithOverflowAlert(AlertIgnore))
	a.NoError(err)
	a.Equal(float64(3), x.Float64())
	a.True(x.Clamped())

	x, err = FromFloat(3.5, WithFormat(false, 2, 0), WithOverflowAlert(AlertIgnore), WithOverflow(OverflowWrap))
	a.NoError(err)
	a.Equal(float64(0), x.Float64())

	x, err = FromFloat(-5, WithFormat(true, 3, 0), WithOverflowAlert(AlertIgnore))
	a.NoError(err)
	a.Equal(float64(-4), x.Float64())
	a.True(x.Clamped())

	x, err = FromFloat(-5, WithFormat(true, 3, 0), WithOverflowAlert(AlertIgnore), WithOverflow(OverflowWrap))
	a.NoError(err)
	a.Equal(float64(3), x.Float64())
}

func TestFromInt(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		v       int64
		signed  bool
		m       int
		clamped bool
	}{
		{0, false, 1, true},
		{1, false, 1, true},
		{5, false, 3, false},
		{-1, true, 1, true},
		{-3, true, 3, false},
		{-8, true, 4, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			x, err := FromInt(test.v)
			a.NoError(err)
			a.Equal(test.signed, x.Signed())
			a.Equal(test.m, x.M())
			a.Equal(0, x.N())
			a.Equal(test.v, x.BigInt().Int64())
			a.Equal(test.clamped, x.Clamped())
		})
	}
}

func TestFormatValidation(t *testing.T) {
	a := assert.New(t)
	for i, f := range []Format{
		{Signed: false, M: 0, N: 0},
		{Signed: true, M: 0, N: 3},
		{Signed: false, M: -1, N: 2},
		{Signed: false, M: 2, N: -1},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := FromInt(0, WithFormat(f.Signed, f.M, f.N))
			a.ErrorIs(err, ErrTypeConformance)
		})
	}
}

func TestAccessors(t *testing.T) {
	a := assert.New(t)
	x := mk(t, "0b1011", true, 3, 1) // -2.5

	a.Equal(-2.5, x.Float64())
	a.Equal(big.NewRat(-5, 2), x.Rat())
	a.Equal(int64(-2), x.BigInt().Int64()) // truncated toward zero
	a.Equal("Q3.1", x.QFormat())
	a.Equal(Format{Signed: true, M: 3, N: 1}, x.Format())
	a.Equal(4, x.Len())
	a.Equal(uint(1), x.MSB())
	a.Equal(big.NewInt(15), x.Bitmask())
	a.False(x.Clamped())

	a.True(mk(t, "0b011", true, 2, 1).Clamped())  // max of Q2.1
	a.True(mk(t, "0b100", true, 2, 1).Clamped())  // min of Q2.1
	a.False(mk(t, "0b011", false, 2, 1).Clamped())
	a.True(mk(t, "0b111", false, 2, 1).Clamped())
}

func TestCopy(t *testing.T) {
	a := assert.New(t)
	x := mk(t, "0b101", false, 2, 1, WithRounding(RoundDown))
	y := x.Copy()
	a.Equal(x.Bits(), y.Bits())
	a.Equal(x.Format(), y.Format())
	a.Equal(x.Policy(), y.Policy())
	a.Equal(x.Runtime(), y.Runtime())
	a.NotEqual(x.Serial(), y.Serial())

	// the copy owns its bits
	a.NoError(y.SetFromString("0b010"))
	a.Equal(big.NewInt(0b101), x.Bits())
}

func TestResize(t *testing.T) {
	a := assert.New(t)

	x := mk(t, "0b101", false, 2, 1) // 2.5, default unsigned rounding is nearest
	a.NoError(x.Resize(3, 0))
	a.Equal(float64(3), x.Float64())
	a.Equal("UQ3.0", x.QFormat())

	x = mk(t, "0b1011", true, 3, 1) // -2.5, default signed rounding is convergent
	a.NoError(x.Resize(3, 0))
	a.Equal(float64(-2), x.Float64())

	// growing is always exact
	x = mk(t, "0b101", false, 2, 1)
	a.NoError(x.Resize(4, 3))
	a.Equal(2.5, x.Float64())

	// a fatal overflow leaves the value untouched
	x = mk(t, "0b101", false, 2, 1)
	err := x.Resize(1, 1)
	a.ErrorIs(err, ErrOverflow)
	a.Equal(2.5, x.Float64())
	a.Equal("UQ2.1", x.QFormat())

	a.ErrorIs(x.Resize(-1, 1), ErrTypeConformance)
}

func TestGuard(t *testing.T) {
	a := assert.New(t)

	x := mk(t, "0b101", false, 2, 1)
	g := x.Begin()
	a.NoError(x.IMul(Int(3)))
	a.Equal(7.5, x.Float64())
	g.Rollback()
	a.Equal(2.5, x.Float64())
	a.Equal("UQ2.1", x.QFormat())

	g = x.Begin()
	a.NoError(x.IMul(Int(3)))
	g.Commit()
	g.Rollback() // no-op after Commit
	a.Equal(7.5, x.Float64())
}

func TestAtomic(t *testing.T) {
	a := assert.New(t)
	boom := errors.New("boom")

	x := mk(t, "0b101", false, 2, 1)
	err := x.Atomic(func(x *FixedPoint) error {
		if err := x.IAdd(Int(1)); err != nil {
			return err
		}
		return boom
	})
	a.ErrorIs(err, boom)
	a.Equal(2.5, x.Float64())

	a.NoError(x.Atomic(func(x *FixedPoint) error {
		return x.IAdd(Int(1))
	}))
	a.Equal(3.5, x.Float64())
}

func TestMinMMinN(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		f    float64
		m, n int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{2.5, 2, 1},
		{-2.5, 3, 1},
		{0.75, 0, 2},
		{-0.375, 1, 3},
		{255, 8, 0},
		{-256, 9, 0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.m, MinM(test.f))
			a.Equal(test.n, MinN(test.f))
		})
	}
}

func TestRoundQuo(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		v    int64
		want map[Rounding]int64
	}{
		{6, map[Rounding]int64{RoundDown: 1, RoundUp: 2, RoundIn: 1, RoundOut: 2, RoundNearest: 2, RoundConvergent: 2}},
		{-6, map[Rounding]int64{RoundDown: -2, RoundUp: -1, RoundIn: -1, RoundOut: -2, RoundNearest: -1, RoundConvergent: -2}},
		{5, map[Rounding]int64{RoundDown: 1, RoundUp: 2, RoundIn: 1, RoundOut: 1, RoundNearest: 1, RoundConvergent: 1}},
		{2, map[Rounding]int64{RoundDown: 0, RoundUp: 1, RoundIn: 0, RoundOut: 1, RoundNearest: 1, RoundConvergent: 0}},
		{-2, map[Rounding]int64{RoundDown: -1, RoundUp: 0, RoundIn: 0, RoundOut: -1, RoundNearest: 0, RoundConvergent: 0}},
		{8, map[Rounding]int64{RoundDown: 2, RoundUp: 2, RoundIn: 2, RoundOut: 2, RoundNearest: 2, RoundConvergent: 2}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			for mode, want := range test.want {
				got := roundQuo(big.NewInt(test.v), big.NewInt(4), mode)
				a.Equal(want, got.Int64(), "v=%d mode=%s", test.v, mode)
			}
		})
	}
}

func TestBitsRoundTrip(t *testing.T) {
	a := assert.New(t)
	for _, signed := range []bool{false, true} {
		for m := 0; m <= 4; m++ {
			for n := 0; n <= 4; n++ {
				f := Format{Signed: signed, M: m, N: n}
				if f.validate() != nil {
					continue
				}
				hi := new(big.Int).Lsh(bigOne, uint(f.Width()))
				for bits := int64(0); bits < hi.Int64(); bits += 3 {
					x, err := FromString(fmt.Sprintf("%#x", bits), signed, m, n)
					a.NoError(err)
					a.Equal(bits, x.Bits().Int64())
					// decoding the represented value at the same format
					// must reproduce the pattern
					y, err := FromFloat(x.Float64(), WithFormat(signed, m, n))
					a.NoError(err)
					a.Equal(bits, y.Bits().Int64(), "%s bits=%b", f, bits)
				}
			}
		}
	}
}
