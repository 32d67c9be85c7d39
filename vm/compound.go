package vm

import "fmt"

// Compound is an ordinary word whose behaviour is a recorded sequence of
// thunks. Words in the body are bound when the compound is defined; later
// shadowing does not change it.
type Compound struct {
	name   string
	body   []Thunk
	effect StackEffect
}

func NewCompound(name string, body []Thunk) (*Compound, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s has an empty body", ErrRegistration, name)
	}
	effects := make([]StackEffect, len(body))
	for i, t := range body {
		effects[i] = t.StackEffect()
	}
	return &Compound{
		name:   name,
		body:   append([]Thunk(nil), body...),
		effect: Compose(effects...),
	}, nil
}

func (c *Compound) Name() string             { return c.name }
func (c *Compound) IsMacro() bool            { return false }
func (c *Compound) StackEffect() StackEffect { return c.effect }
func (c *Compound) Register(vm *VM) error    { return vm.Register(c) }

func (c *Compound) Body() []Thunk {
	return append([]Thunk(nil), c.body...)
}

func (c *Compound) Exec(vm *VM) error {
	vm.AppendThunk(CallThunk(c))
	return nil
}

func (c *Compound) Invoke(vm *VM) error {
	for _, t := range c.body {
		if err := t.Run(vm); err != nil {
			return &WordError{Word: t.Name(), Err: err}
		}
	}
	return nil
}
