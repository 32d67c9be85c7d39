// Package words is the builtin vocabulary: arithmetic, stack shuffling,
// strings, lists, maps and the immediate words that drive the VM.
package words

import (
	"errors"

	"github.com/odra-lang/odra/internal/backend"
	"github.com/odra-lang/odra/vm"
)

var (
	ErrDivideByZero   = errors.New("division by zero")
	ErrIndex          = errors.New("index out of range")
	ErrKeyNotFound    = errors.New("key not found")
	ErrMissingOperand = errors.New("missing operand")
	ErrBadOperand     = errors.New("bad operand")
)

type options struct {
	engine *backend.Starlark
}

type Option func(*options)

// WithEngine sets the Starlark engine behind eval:.
func WithEngine(e *backend.Starlark) Option {
	return func(o *options) { o.engine = e }
}

// Registry returns every builtin word, ready to hand to vm.WithRegistry.
func Registry(opts ...Option) *vm.Registry {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = backend.NewStarlark()
	}
	r := vm.NewRegistry()
	r.Add(arithmetic()...)
	r.Add(stackWords()...)
	r.Add(dataWords()...)
	r.Add(macros(o.engine)...)
	return r
}
