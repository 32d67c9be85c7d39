package words

import (
	"fmt"

	"github.com/odra-lang/odra/value"
	"github.com/odra-lang/odra/vm"
)

var (
	any1 = []value.Kind{value.KindAny}
	any2 = []value.Kind{value.KindAny, value.KindAny}
	any3 = []value.Kind{value.KindAny, value.KindAny, value.KindAny}
)

func stackWords() []vm.Word {
	return []vm.Word{
		vm.MustOrdinary("dup", dup).WithEffect(vm.Static(any1, any2)),
		vm.MustOrdinary("drop", func(*value.Ref) {}),
		vm.MustOrdinary("swap", swap).WithEffect(vm.Static(any2, any2)),
		vm.MustOrdinary("over", over).WithEffect(vm.Static(any2, any3)),
		vm.MustOrdinary("depth", func(m *vm.VM) int { return m.Active().Len() }),
		vm.MustOrdinary("clear", func(m *vm.VM) { m.Active().Clear() }).WithEffect(vm.Dynamic),
		vm.MustOrdinary("print_stack", printStack),
	}
}

func dup(m *vm.VM) error {
	r, err := m.Active().Peek()
	if err != nil {
		return err
	}
	m.Active().Push(r)
	return nil
}

func swap(m *vm.VM) error {
	f := m.Active()
	if f.Len() < 2 {
		return fmt.Errorf("%w: swap needs 2 values, fibre %q has %d", vm.ErrStackUnderflow, f.Name(), f.Len())
	}
	b, _ := f.Pop()
	a, _ := f.Pop()
	f.Push(b)
	f.Push(a)
	return nil
}

func over(m *vm.VM) error {
	f := m.Active()
	if f.Len() < 2 {
		return fmt.Errorf("%w: over needs 2 values, fibre %q has %d", vm.ErrStackUnderflow, f.Name(), f.Len())
	}
	vals := f.Values()
	f.Push(vals[len(vals)-2])
	return nil
}

func printStack(m *vm.VM) error {
	_, err := fmt.Fprintln(m.Out(), m.Active().String())
	return err
}
