// Package backend evaluates expressions in an embedded Starlark
// interpreter on behalf of the eval: word.
package backend

import (
	"errors"
	"fmt"
	"math"

	"github.com/odra-lang/odra/value"
	"github.com/rs/zerolog/log"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var ErrUnsupported = errors.New("value has no counterpart")

const defaultMaxSteps = 1_000_000

type Option func(*Starlark)

// WithMaxSteps bounds how many steps one evaluation may take. Zero means
// no bound.
func WithMaxSteps(n uint64) Option {
	return func(s *Starlark) { s.maxSteps = n }
}

// WithGlobal adds a predeclared name visible to every evaluation.
func WithGlobal(name string, v starlark.Value) Option {
	return func(s *Starlark) { s.globals[name] = v }
}

type Starlark struct {
	opts     syntax.FileOptions
	globals  starlark.StringDict
	maxSteps uint64
}

func NewStarlark(opts ...Option) *Starlark {
	s := &Starlark{
		globals:  starlark.StringDict{},
		maxSteps: defaultMaxSteps,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Eval evaluates one expression with stack bound to s, bottom first. A None
// result yields a nil Ref.
func (s *Starlark) Eval(src string, stack []*value.Ref) (*value.Ref, error) {
	elems := make([]starlark.Value, len(stack))
	for i, r := range stack {
		v, err := ToStarlark(r)
		if err != nil {
			return nil, fmt.Errorf("stack item %d: %w", i, err)
		}
		elems[i] = v
	}

	env := make(starlark.StringDict, len(s.globals)+1)
	for k, v := range s.globals {
		env[k] = v
	}
	env["s"] = starlark.NewList(elems)

	thread := &starlark.Thread{
		Name:  "eval",
		Print: func(_ *starlark.Thread, msg string) { log.Info().Str("from", "eval").Msg(msg) },
	}
	if s.maxSteps > 0 {
		thread.SetMaxExecutionSteps(s.maxSteps)
	}

	log.Trace().Str("src", src).Int("stack", len(stack)).Msg("backend: eval")
	result, err := starlark.EvalOptions(&s.opts, thread, "<eval>", src, env)
	if err != nil {
		return nil, err
	}
	return FromStarlark(result)
}

// ToStarlark converts a runtime value. Integral numbers become ints so
// they can index lists.
func ToStarlark(r *value.Ref) (starlark.Value, error) {
	switch v := r.Value().(type) {
	case value.Number:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) <= 1<<53 {
			return starlark.MakeInt64(int64(f)), nil
		}
		return starlark.Float(f), nil
	case value.String:
		return starlark.String(string(v)), nil
	case value.List:
		items := v.Items()
		elems := make([]starlark.Value, len(items))
		for i, item := range items {
			e, err := ToStarlark(item)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return starlark.NewList(elems), nil
	case value.Map:
		d := starlark.NewDict(v.Len())
		var err error
		v.Each(func(k, val *value.Ref) bool {
			var sk, sv starlark.Value
			if sk, err = ToStarlark(k); err != nil {
				return false
			}
			if sv, err = ToStarlark(val); err != nil {
				return false
			}
			err = d.SetKey(sk, sv)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, r.Kind())
}

func FromStarlark(v starlark.Value) (*value.Ref, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		if v {
			return value.Num(1), nil
		}
		return value.Num(0), nil
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return value.Num(float64(i)), nil
		}
		return value.Num(float64(v.Float())), nil
	case starlark.Float:
		return value.Num(float64(v)), nil
	case starlark.String:
		return value.Str(string(v)), nil
	case *starlark.Dict:
		m := value.NewMap()
		for _, kv := range v.Items() {
			k, err := FromStarlark(kv[0])
			if err != nil {
				return nil, err
			}
			val, err := FromStarlark(kv[1])
			if err != nil {
				return nil, err
			}
			if k == nil || val == nil {
				return nil, fmt.Errorf("%w: None inside a dict", ErrUnsupported)
			}
			m = m.Set(k, val)
		}
		return value.New(m), nil
	case starlark.Indexable:
		items := make([]*value.Ref, v.Len())
		for i := range items {
			item, err := FromStarlark(v.Index(i))
			if err != nil {
				return nil, err
			}
			if item == nil {
				return nil, fmt.Errorf("%w: None inside a sequence", ErrUnsupported)
			}
			items[i] = item
		}
		return value.ListOf(items...), nil
	}
	return nil, fmt.Errorf("%w: starlark %s", ErrUnsupported, v.Type())
}
