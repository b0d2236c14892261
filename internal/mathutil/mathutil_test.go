// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mathutil

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinM(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		val float64
		m   int
	}{
		{0, 0},
		{0.5, 0},
		{1, 1},
		{1.5, 1},
		{2.5, 2},
		{3.75, 2},
		{4, 3},
		{-0.5, 1},
		{-1, 1},
		{-2, 2},
		{-2.5, 3},
		{-4, 3},
		{-4.25, 4},
		{1 << 20, 21},
		{math.Inf(1), 0},
		{math.NaN(), 0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.m, MinM(test.val))
		})
	}
}

func TestMinN(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		val float64
		n   int
	}{
		{0, 0},
		{5, 0},
		{-3, 0},
		{0.5, 1},
		{-0.5, 1},
		{0.75, 2},
		{2.625, 3},
		{math.Pow(2, -60), 60},
		{1 + math.Pow(2, -52), 52},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.n, MinN(test.val))
		})
	}
}

func TestIntBits(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		val  int64
		bits int
	}{
		{0, 0},
		{1, 1},
		{3, 2},
		{4, 3},
		{-1, 1},
		{-2, 2},
		{-3, 3},
		{-4, 3},
		{-5, 4},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.bits, IntBits(big.NewInt(test.val)))
		})
	}
}

func TestFloorDivMod(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		x, y, q, r int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-7, -2, 3, -1},
		{6, 3, 2, 0},
		{-6, 3, -2, 0},
		{0, 5, 0, 0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			q, r := FloorDivMod(big.NewInt(test.x), big.NewInt(test.y))
			a.Equal(test.q, q.Int64())
			a.Equal(test.r, r.Int64())
		})
	}
}

func TestMaskPow5(t *testing.T) {
	a := assert.New(t)
	a.Equal(int64(0), Mask(0).Int64())
	a.Equal(int64(1), Mask(1).Int64())
	a.Equal(int64(255), Mask(8).Int64())
	a.Equal(int64(1), Pow5(0).Int64())
	a.Equal(int64(125), Pow5(3).Int64())
	want := new(big.Int).Exp(big.NewInt(5), big.NewInt(40), nil)
	a.Equal(want, Pow5(40))
}
