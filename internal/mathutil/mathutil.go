// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package mathutil provides pure big-integer helpers for binary
// fixed-point width inference and encoding.
package mathutil

import (
	"math/big"
)

var (
	one = big.NewInt(1)

	// 5^0 .. 5^27, the largest powers of five that fit an uint64.
	pow5Table = [...]uint64{
		1, 5, 25, 125, 625,
		3125, 15625, 78125, 390625, 1953125,
		9765625, 48828125, 244140625, 1220703125, 6103515625,
		30517578125, 152587890625, 762939453125, 3814697265625, 19073486328125,
		95367431640625, 476837158203125, 2384185791015625, 11920928955078125,
		59604644775390625, 298023223876953125, 1490116119384765625, 7450580596923828125,
	}
)

// Mask returns 2^width - 1.
func Mask(width int) *big.Int {
	m := new(big.Int).Lsh(one, uint(width))
	return m.Sub(m, one)
}

// Pow5 returns 5^pow for pow >= 0.
func Pow5(pow int) *big.Int {
	if pow < len(pow5Table) {
		return new(big.Int).SetUint64(pow5Table[pow])
	}
	return new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(pow)), nil)
}

// IntBits returns the number of integer bits needed to hold v,
// including a sign bit if v is negative. IntBits(0) == 0.
func IntBits(v *big.Int) int {
	if v.Sign() >= 0 {
		return v.BitLen()
	}
	// v >= -2^(m-1), so m-1 bits must cover |v|-1.
	t := new(big.Int).Neg(v)
	t.Sub(t, one)
	return t.BitLen() + 1
}

// FloorDiv returns floor(a / b). b must be non-zero.
func FloorDiv(a, b *big.Int) *big.Int {
	q, _ := FloorDivMod(a, b)
	return q
}

// FloorDivMod returns q = floor(a / b) and r = a - q*b.
// r has the sign of b, or is zero. b must be non-zero.
func FloorDivMod(a, b *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, one)
		r.Add(r, b)
	}
	return q, r
}

// FloorRat returns floor(r) as a big integer.
func FloorRat(r *big.Rat) *big.Int {
	return FloorDiv(r.Num(), r.Denom())
}

// MinM returns the minimal integer bit count, including a sign bit for
// negative values, needed to represent val's integer part.
// Non-finite values yield 0.
func MinM(val float64) int {
	r := new(big.Rat).SetFloat64(val)
	if r == nil {
		return 0
	}
	return IntBits(FloorRat(r))
}

// MinN returns the minimal fraction bit count needed to represent val's
// fractional part exactly. float64 values always terminate in binary, so
// the result never exceeds 1074. Non-finite values yield 0.
func MinN(val float64) int {
	r := new(big.Rat).SetFloat64(val)
	if r == nil {
		return 0
	}
	// The denominator of an exact float64 rational is a power of two.
	return r.Denom().BitLen() - 1
}
