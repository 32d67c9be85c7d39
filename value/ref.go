package value

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/dgryski/go-farm"
)

// Ref is a shared handle to exactly one Value. Refs are owned by the Go
// garbage collector, which traces through List and Map elements, so cycles
// are collected and Refs may be shared freely between fibres and goroutines.
//
// Hash and Equal are structural when the Ref holds a Number or String and
// identity based otherwise.
type Ref struct {
	v Value
}

func New(v Value) *Ref {
	if v == nil {
		panic("value: New called with a nil Value")
	}
	return &Ref{v: v}
}

func Num(f float64) *Ref        { return New(Number(f)) }
func Str(s string) *Ref         { return New(String(s)) }
func ListOf(items ...*Ref) *Ref { return New(NewList(items...)) }

func (r *Ref) Value() Value { return r.v }
func (r *Ref) Kind() Kind   { return r.v.Kind() }

// Same reports whether r and o are the same allocation.
func (r *Ref) Same(o *Ref) bool { return r == o }

func (r *Ref) Equal(o *Ref) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil {
		return false
	}
	switch a := r.v.(type) {
	case Number:
		b, ok := o.v.(Number)
		return ok && a == b
	case String:
		b, ok := o.v.(String)
		return ok && a == b
	}
	return false
}

func (r *Ref) Hash() uint64 {
	var buf [9]byte
	switch v := r.v.(type) {
	case Number:
		f := float64(v)
		if f == 0 {
			// -0 == +0, so they must hash alike
			f = 0
		}
		buf[0] = byte(KindNumber)
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
		return farm.Hash64(buf[:])
	case String:
		b := make([]byte, 0, len(v)+1)
		b = append(b, byte(KindString))
		b = append(b, v...)
		return farm.Hash64(b)
	}
	buf[0] = byte(r.v.Kind())
	binary.LittleEndian.PutUint64(buf[1:], uint64(uintptr(unsafe.Pointer(r))))
	return farm.Hash64(buf[:])
}

func (r *Ref) String() string { return Format(r.v) }

type refHasher struct{}

func (refHasher) Hash(key *Ref) uint32 {
	h := key.Hash()
	return uint32(h ^ h>>32)
}

func (refHasher) Equal(a, b *Ref) bool { return a.Equal(b) }
