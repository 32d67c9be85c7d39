package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrConversion is matched by every failed conversion between Go values and
// runtime Values.
var ErrConversion = errors.New("conversion error")

type ConversionError struct {
	From   string
	To     string
	Reason string
}

func (e *ConversionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot convert %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

var (
	refType   = reflect.TypeFor[*Ref]()
	valueType = reflect.TypeFor[Value]()
	listType  = reflect.TypeFor[List]()
	mapType   = reflect.TypeFor[Map]()
)

// KindOf reports the Kind a Go type converts to and from. ok is false for
// types outside the conversion contract.
func KindOf(t reflect.Type) (kind Kind, ok bool) {
	switch t {
	case refType, valueType:
		return KindAny, true
	case listType:
		return KindList, true
	case mapType:
		return KindMap, true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool:
		return KindNumber, true
	case reflect.String:
		return KindString, true
	}
	return KindAny, false
}

// Of converts a Go value into a Ref. Every integer and float type widens to
// Number; bool becomes 1 or 0.
func Of(x any) (*Ref, error) {
	switch x := x.(type) {
	case nil:
		return nil, &ConversionError{From: "nil", To: "Value"}
	case *Ref:
		if x == nil {
			return nil, &ConversionError{From: "nil *Ref", To: "Value"}
		}
		return x, nil
	case Value:
		return New(x), nil
	case []*Ref:
		return New(NewList(x...)), nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return New(Number(float64(rv.Int()))), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return New(Number(float64(rv.Uint()))), nil
	case reflect.Float32, reflect.Float64:
		return New(Number(rv.Float())), nil
	case reflect.String:
		return New(String(rv.String())), nil
	case reflect.Bool:
		if rv.Bool() {
			return New(Number(1)), nil
		}
		return New(Number(0)), nil
	}
	return nil, &ConversionError{From: fmt.Sprintf("%T", x), To: "Value", Reason: "unsupported type"}
}

// As converts the value held by r into a T.
func As[T any](r *Ref) (T, error) {
	var zero T
	rv, err := Convert(r, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

// Convert converts the value held by r into a reflect.Value of type t.
// Integer targets only accept integral Numbers inside the target's range;
// nothing is ever truncated.
func Convert(r *Ref, t reflect.Type) (reflect.Value, error) {
	if r == nil {
		return reflect.Value{}, &ConversionError{From: "nil *Ref", To: t.String()}
	}
	switch t {
	case refType:
		return reflect.ValueOf(r), nil
	case valueType:
		out := reflect.New(t).Elem()
		out.Set(reflect.ValueOf(r.v))
		return out, nil
	case listType:
		l, ok := r.v.(List)
		if !ok {
			return reflect.Value{}, kindMismatch(r, t)
		}
		return reflect.ValueOf(l), nil
	case mapType:
		m, ok := r.v.(Map)
		if !ok {
			return reflect.Value{}, kindMismatch(r, t)
		}
		return reflect.ValueOf(m), nil
	}

	out := reflect.New(t).Elem()
	if t.Kind() == reflect.String {
		s, ok := r.v.(String)
		if !ok {
			return reflect.Value{}, kindMismatch(r, t)
		}
		out.SetString(string(s))
		return out, nil
	}

	n, ok := r.v.(Number)
	if !ok {
		return reflect.Value{}, kindMismatch(r, t)
	}
	f := float64(n)
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bound := math.Ldexp(1, t.Bits()-1)
		if err := checkIntegral(f, -bound, bound, t); err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if err := checkIntegral(f, 0, math.Ldexp(1, t.Bits()), t); err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(uint64(f))
	case reflect.Float32:
		if !math.IsNaN(f) && float64(float32(f)) != f {
			return reflect.Value{}, &ConversionError{From: Format(n), To: t.String(), Reason: "not exactly representable"}
		}
		out.SetFloat(f)
	case reflect.Float64:
		out.SetFloat(f)
	case reflect.Bool:
		switch f {
		case 0:
			out.SetBool(false)
		case 1:
			out.SetBool(true)
		default:
			return reflect.Value{}, &ConversionError{From: Format(n), To: t.String(), Reason: "expected 0 or 1"}
		}
	default:
		return reflect.Value{}, &ConversionError{From: r.Kind().String(), To: t.String(), Reason: "unsupported type"}
	}
	return out, nil
}

// checkIntegral accepts f when it is a whole number in [lo, hi).
func checkIntegral(f, lo, hi float64, t reflect.Type) error {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return &ConversionError{From: Format(Number(f)), To: t.String(), Reason: "not finite"}
	case math.Trunc(f) != f:
		return &ConversionError{From: Format(Number(f)), To: t.String(), Reason: "not an integer"}
	case f < lo || f >= hi:
		return &ConversionError{From: Format(Number(f)), To: t.String(), Reason: "out of range"}
	}
	return nil
}

func kindMismatch(r *Ref, t reflect.Type) error {
	return &ConversionError{From: r.Kind().String(), To: t.String(), Reason: "wrong kind"}
}
