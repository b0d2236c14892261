// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixedpoint

import (
	"fmt"
)

func Example() {
	x, err := FromFloat(2.5, WithFormat(false, 2, 1), WithStrBase(Base2))
	if err != nil {
		panic(err)
	}
	y, err := FromFloat(0.75, WithFormat(false, 1, 2), WithStrBase(Base2))
	if err != nil {
		panic(err)
	}

	sum, err := x.Add(FP(y))
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s (%s) + %s (%s) = %s (%s) = %v\n",
		x, x.QFormat(), y, y.QFormat(), sum, sum.QFormat(), sum.Float64())

	prod, err := x.Mul(Int(3))
	if err != nil {
		panic(err)
	}
	fmt.Printf("%v * 3 = %v at %s\n", x.Float64(), prod.Float64(), prod.QFormat())

	div, mod, err := prod.Divmod(FP(x))
	if err != nil {
		panic(err)
	}
	fmt.Printf("%v divmod %v = (%v, %v)\n", prod.Float64(), x.Float64(), div.Float64(), mod.Float64())

	// Output:
	// 0b101 (UQ2.1) + 0b011 (UQ1.2) = 0b01101 (UQ3.2) = 3.25
	// 2.5 * 3 = 7.5 at UQ4.1
	// 7.5 divmod 2.5 = (3, 0)
}

func ExampleFixedPoint_Resize() {
	x, err := FromFloat(2.5, WithFormat(false, 2, 1))
	if err != nil {
		panic(err)
	}
	if err := x.Resize(3, 0); err != nil {
		panic(err)
	}
	// unsigned values round to nearest, ties toward positive infinity
	fmt.Printf("%v at %s\n", x.Float64(), x.QFormat())
	// Output:
	// 3 at UQ3.0
}
