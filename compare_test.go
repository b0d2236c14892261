// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	a := assert.New(t)
	x := mk(t, "0b1011", true, 3, 1) // -2.5
	tests := []struct {
		rhs        Operand
		lt, eq, gt bool
	}{
		{Float(-2.5), false, true, false},
		{Float(-2.25), true, false, false},
		{Int(-3), false, false, true},
		{Int(0), true, false, false},
		{FP(mk(t, "0b1011", true, 3, 1)), false, true, false},
		{FP(mk(t, "0b101", false, 2, 1)), true, false, false}, // 2.5
		{Float(math.Inf(1)), true, false, false},
		{Float(math.Inf(-1)), false, false, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.lt, x.Lt(test.rhs))
			a.Equal(test.eq, x.Eq(test.rhs))
			a.Equal(test.gt, x.Gt(test.rhs))
			a.Equal(test.lt || test.eq, x.Le(test.rhs))
			a.Equal(test.gt || test.eq, x.Ge(test.rhs))
			a.Equal(!test.eq, x.Ne(test.rhs))
		})
	}
}

// Values compare by represented value, not by format or bit pattern.
func TestCompareAcrossFormats(t *testing.T) {
	a := assert.New(t)
	x := mk(t, "0b101", false, 2, 1)      // UQ2.1 2.5
	y := mk(t, "0b001010", true, 4, 2)    // Q4.2 2.5
	a.True(x.Eq(FP(y)))
	a.True(y.Eq(FP(x)))
	a.False(x.Lt(FP(y)))
	a.True(x.Le(FP(y)))
}

func TestCompareNaN(t *testing.T) {
	a := assert.New(t)
	x := mk(t, "0b101", false, 2, 1)
	nan := Float(math.NaN())

	a.False(x.Eq(nan))
	a.True(x.Ne(nan))
	a.False(x.Lt(nan))
	a.False(x.Le(nan))
	a.False(x.Gt(nan))
	a.False(x.Ge(nan))
}

// Comparisons are read-only: they never log and never fail, even between
// values with differing properties.
func TestCompareNoAlerts(t *testing.T) {
	a := assert.New(t)
	h := &recordingHandler{}
	rt := newRecordingRuntime(h)

	x := mk(t, "0b101", false, 2, 1, WithRuntime(rt), WithRounding(RoundDown), WithMismatchAlert(AlertError))
	y := mk(t, "0b011", false, 1, 2, WithRuntime(rt))
	a.True(x.Gt(FP(y)))
	a.True(y.Lt(FP(x)))
	a.Empty(h.take())
}
