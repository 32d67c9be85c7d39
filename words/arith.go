package words

import (
	"github.com/odra-lang/odra/vm"
)

func arithmetic() []vm.Word {
	return []vm.Word{
		vm.MustOrdinary("one", func() int { return 1 }),
		vm.MustOrdinary("two", func() int { return 2 }),
		vm.MustOrdinary("add", func(a, b float64) float64 { return a + b }),
		vm.MustOrdinary("sub", func(a, b float64) float64 { return a - b }),
		vm.MustOrdinary("mul", func(a, b float64) float64 { return a * b }),
		vm.MustOrdinary("div", div),
		vm.MustOrdinary("neg", func(a float64) float64 { return -a }),
	}
}

func div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}
