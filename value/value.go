package value

import (
	"fmt"

	"github.com/benbjohnson/immutable"
)

// Kind is the type tag of a runtime value.
type Kind int

const (
	KindAny Kind = iota
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is an immutable runtime value. Operations that "modify" a value
// return a new one sharing the unchanged parts of the original.
type Value interface {
	isValue()
	Kind() Kind
	// Trace calls visit for every Ref directly held by the value.
	Trace(visit func(*Ref))
}

type Number float64

func (Number) isValue()         {}
func (Number) Kind() Kind       { return KindNumber }
func (Number) Trace(func(*Ref)) {}
func (n Number) Float() float64 { return float64(n) }

type String string

func (String) isValue()         {}
func (String) Kind() Kind       { return KindString }
func (String) Trace(func(*Ref)) {}

// List is a persistent ordered sequence of Refs.
type List struct {
	items *immutable.List[*Ref]
}

func NewList(items ...*Ref) List {
	return List{items: immutable.NewList(items...)}
}

func (List) isValue()   {}
func (List) Kind() Kind { return KindList }

func (l List) list() *immutable.List[*Ref] {
	if l.items == nil {
		return immutable.NewList[*Ref]()
	}
	return l.items
}

func (l List) Len() int {
	if l.items == nil {
		return 0
	}
	return l.items.Len()
}

func (l List) Get(i int) (*Ref, bool) {
	if i < 0 || i >= l.Len() {
		return nil, false
	}
	return l.items.Get(i), true
}

func (l List) Append(r *Ref) List {
	return List{items: l.list().Append(r)}
}

func (l List) Set(i int, r *Ref) (List, bool) {
	if i < 0 || i >= l.Len() {
		return l, false
	}
	return List{items: l.items.Set(i, r)}, true
}

// Slice returns the elements in [start, end). Out of range bounds are clamped.
func (l List) Slice(start, end int) List {
	n := l.Len()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return NewList()
	}
	return List{items: l.items.Slice(start, end)}
}

func (l List) Items() []*Ref {
	out := make([]*Ref, 0, l.Len())
	l.Trace(func(r *Ref) { out = append(out, r) })
	return out
}

func (l List) Trace(visit func(*Ref)) {
	if l.items == nil {
		return
	}
	itr := l.items.Iterator()
	for !itr.Done() {
		_, r := itr.Next()
		visit(r)
	}
}

// Map is a persistent mapping with unique keys. Keys are compared with
// Ref.Equal, so scalar keys match by content and aggregate keys by identity.
type Map struct {
	entries *immutable.Map[*Ref, *Ref]
}

func NewMap() Map {
	return Map{entries: immutable.NewMap[*Ref, *Ref](refHasher{})}
}

func (Map) isValue()   {}
func (Map) Kind() Kind { return KindMap }

func (m Map) dict() *immutable.Map[*Ref, *Ref] {
	if m.entries == nil {
		return immutable.NewMap[*Ref, *Ref](refHasher{})
	}
	return m.entries
}

func (m Map) Len() int {
	if m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

func (m Map) Get(key *Ref) (*Ref, bool) {
	if m.entries == nil {
		return nil, false
	}
	return m.entries.Get(key)
}

func (m Map) Set(key, val *Ref) Map {
	return Map{entries: m.dict().Set(key, val)}
}

func (m Map) Delete(key *Ref) Map {
	if m.entries == nil {
		return m
	}
	return Map{entries: m.entries.Delete(key)}
}

// Each calls f for every entry until f returns false. Iteration order is
// unspecified.
func (m Map) Each(f func(key, val *Ref) bool) {
	if m.entries == nil {
		return
	}
	itr := m.entries.Iterator()
	for !itr.Done() {
		k, v, ok := itr.Next()
		if !ok {
			return
		}
		if !f(k, v) {
			return
		}
	}
}

func (m Map) Keys() []*Ref {
	out := make([]*Ref, 0, m.Len())
	m.Each(func(k, _ *Ref) bool {
		out = append(out, k)
		return true
	})
	return out
}

func (m Map) Trace(visit func(*Ref)) {
	m.Each(func(k, v *Ref) bool {
		visit(k)
		visit(v)
		return true
	})
}
