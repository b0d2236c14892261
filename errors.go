// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import "errors"

// Sentinel errors for the operator engine. Conditions other than
// ErrOverflow and ErrFormatMismatch are unconditionally fatal;
// those two are governed by the overflow and mismatch alert levels.
var (
	// ErrFormatMismatch indicates a binary operation between operands with
	// differing properties while the mismatch alert is set to error.
	ErrFormatMismatch = errors.New("fixedpoint: operand property mismatch")

	// ErrOverflow indicates a result that does not fit its derived format
	// while the overflow alert is set to error.
	ErrOverflow = errors.New("fixedpoint: overflow")

	// ErrNegationOfUnsigned indicates an attempt to negate an unsigned value.
	ErrNegationOfUnsigned = errors.New("fixedpoint: unsigned numbers cannot be negated")

	// ErrDivideByZero indicates division or modulo by a zero divisor.
	ErrDivideByZero = errors.New("fixedpoint: integer division or modulo by zero")

	// ErrUnsupportedOperator indicates an operator with no fixed-point
	// definition and no registered callback.
	ErrUnsupportedOperator = errors.New("fixedpoint: unsupported operand type(s)")

	// ErrInvalidExponent indicates a negative or non-integer exponent.
	ErrInvalidExponent = errors.New("fixedpoint: only non-negative integers are supported for exponentiation")

	// ErrTypeConformance indicates an operand of an unacceptable type.
	ErrTypeConformance = errors.New("fixedpoint: unexpected operand type")
)
