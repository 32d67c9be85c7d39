package vm

import (
	"strings"

	"github.com/odra-lang/odra/value"
)

// StackEffect describes what a word consumes and produces. The zero value is
// the dynamic effect: nothing is known statically.
type StackEffect struct {
	static  bool
	Inputs  []value.Kind
	Outputs []value.Kind
}

var Dynamic = StackEffect{}

// Static builds a known effect. The last input is the top of the stack.
func Static(inputs, outputs []value.Kind) StackEffect {
	return StackEffect{static: true, Inputs: inputs, Outputs: outputs}
}

func (e StackEffect) IsStatic() bool { return e.static }

func (e StackEffect) String() string {
	if !e.static {
		return "( ? )"
	}
	var sb strings.Builder
	sb.WriteString("(")
	for _, k := range e.Inputs {
		sb.WriteString(" ")
		sb.WriteString(k.String())
	}
	sb.WriteString(" --")
	for _, k := range e.Outputs {
		sb.WriteString(" ")
		sb.WriteString(k.String())
	}
	sb.WriteString(" )")
	return sb.String()
}

// Compose returns the effect of running effects in order. Inputs that an
// earlier part does not provide become inputs of the whole. Any dynamic part
// makes the result dynamic.
func Compose(effects ...StackEffect) StackEffect {
	var inputs, stack []value.Kind
	for _, e := range effects {
		if !e.static {
			return Dynamic
		}
		for i := len(e.Inputs) - 1; i >= 0; i-- {
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
				continue
			}
			inputs = append([]value.Kind{e.Inputs[i]}, inputs...)
		}
		stack = append(stack, e.Outputs...)
	}
	return Static(inputs, stack)
}
