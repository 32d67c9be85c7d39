package vm

import (
	"fmt"
	"reflect"

	"github.com/odra-lang/odra/value"
)

var (
	vmType    = reflect.TypeFor[*VM]()
	errorType = reflect.TypeFor[error]()
)

type param struct {
	typ  reflect.Type
	kind value.Kind
	vm   bool
}

// Native is a Word backed by a Go function. Parameters are taken from the
// active fibre, the last parameter from the top of the stack; a *VM
// parameter receives the VM itself. The function may return nothing, a
// value, an error, or a value and an error. A returned value is pushed.
type Native struct {
	name      string
	macro     bool
	fn        reflect.Value
	params    []param
	hasResult bool
	hasErr    bool
	effect    StackEffect
}

// NewNative wraps fn as a word. Arguments follow stack order: for
// func(a, b float64), b is popped first and a second, so "5 3 sub" computes
// 5 - 3. Argument 0 is not the top of the stack.
func NewNative(name string, macro bool, fn any) (*Native, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: %s: %T is not a function", ErrRegistration, name, fn)
	}
	t := rv.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: %s: variadic functions are not supported", ErrRegistration, name)
	}

	n := &Native{name: name, macro: macro, fn: rv}
	var inputs []value.Kind
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if in == vmType {
			n.params = append(n.params, param{typ: in, vm: true})
			continue
		}
		kind, ok := value.KindOf(in)
		if !ok {
			return nil, fmt.Errorf("%w: %s: unsupported parameter type %s", ErrRegistration, name, in)
		}
		n.params = append(n.params, param{typ: in, kind: kind})
		inputs = append(inputs, kind)
	}

	var outputs []value.Kind
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			n.hasErr = true
			break
		}
		kind, ok := value.KindOf(t.Out(0))
		if !ok {
			return nil, fmt.Errorf("%w: %s: unsupported result type %s", ErrRegistration, name, t.Out(0))
		}
		n.hasResult = true
		outputs = append(outputs, kind)
	case 2:
		kind, ok := value.KindOf(t.Out(0))
		if !ok || t.Out(1) != errorType {
			return nil, fmt.Errorf("%w: %s: results must be (value, error)", ErrRegistration, name)
		}
		n.hasResult, n.hasErr = true, true
		outputs = append(outputs, kind)
	default:
		return nil, fmt.Errorf("%w: %s: too many results", ErrRegistration, name)
	}

	if macro {
		n.effect = Dynamic
	} else {
		n.effect = Static(inputs, outputs)
	}
	return n, nil
}

// MustOrdinary is NewNative for a deferred word, panicking on a bad
// signature. It is meant for builtin tables built at startup.
func MustOrdinary(name string, fn any) *Native {
	n, err := NewNative(name, false, fn)
	if err != nil {
		panic(err)
	}
	return n
}

// MustMacro is NewNative for an immediate word, panicking on a bad
// signature.
func MustMacro(name string, fn any) *Native {
	n, err := NewNative(name, true, fn)
	if err != nil {
		panic(err)
	}
	return n
}

// WithEffect overrides the effect derived from the signature, for words
// that reach the stack through the VM.
func (n *Native) WithEffect(e StackEffect) *Native {
	n.effect = e
	return n
}

func (n *Native) Name() string             { return n.name }
func (n *Native) IsMacro() bool            { return n.macro }
func (n *Native) StackEffect() StackEffect { return n.effect }
func (n *Native) Register(vm *VM) error    { return vm.Register(n) }

func (n *Native) Exec(vm *VM) error {
	if n.macro {
		return vm.invoke(n)
	}
	vm.AppendThunk(CallThunk(n))
	return nil
}

func (n *Native) Invoke(vm *VM) error {
	fibre := vm.Active()
	saved := fibre.stack
	args := make([]reflect.Value, len(n.params))
	for i := len(n.params) - 1; i >= 0; i-- {
		p := n.params[i]
		if p.vm {
			args[i] = reflect.ValueOf(vm)
			continue
		}
		r, err := fibre.Pop()
		if err == nil {
			args[i], err = value.Convert(r, p.typ)
		}
		if err != nil {
			fibre.stack = saved
			return err
		}
	}

	out := n.fn.Call(args)
	if n.hasErr {
		if err, _ := out[len(out)-1].Interface().(error); err != nil {
			return err
		}
	}
	if !n.hasResult {
		return nil
	}
	r, err := value.Of(out[0].Interface())
	if err != nil {
		return err
	}
	vm.Active().Push(r)
	return nil
}
