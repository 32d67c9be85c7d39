package vm

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/odra-lang/odra/value"
)

// Fibre is a named value stack. The stack is persistent, so taking a
// snapshot is free and later pushes or pops never disturb it. A Fibre is not
// synchronized.
type Fibre struct {
	name  string
	stack *immutable.List[*value.Ref]
}

func NewFibre(name string) *Fibre {
	return &Fibre{name: name, stack: immutable.NewList[*value.Ref]()}
}

func (f *Fibre) Name() string { return f.name }
func (f *Fibre) Len() int     { return f.stack.Len() }

func (f *Fibre) Push(r *value.Ref) {
	f.stack = f.stack.Append(r)
}

func (f *Fibre) Pop() (*value.Ref, error) {
	n := f.stack.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: fibre %q is empty", ErrStackUnderflow, f.name)
	}
	r := f.stack.Get(n - 1)
	if n == 1 {
		f.stack = immutable.NewList[*value.Ref]()
	} else {
		f.stack = f.stack.Slice(0, n-1)
	}
	return r, nil
}

func (f *Fibre) Peek() (*value.Ref, error) {
	n := f.stack.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: fibre %q is empty", ErrStackUnderflow, f.name)
	}
	return f.stack.Get(n - 1), nil
}

// Values returns the stack bottom to top.
func (f *Fibre) Values() []*value.Ref {
	out := make([]*value.Ref, 0, f.stack.Len())
	itr := f.stack.Iterator()
	for !itr.Done() {
		_, r := itr.Next()
		out = append(out, r)
	}
	return out
}

// Replace sets the stack to refs, bottom to top.
func (f *Fibre) Replace(refs []*value.Ref) {
	f.stack = immutable.NewList(refs...)
}

func (f *Fibre) Clear() {
	f.stack = immutable.NewList[*value.Ref]()
}

func (f *Fibre) String() string {
	return value.FormatStack(f.Values())
}
