package words

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/odra-lang/odra/value"
	"github.com/odra-lang/odra/vm"
)

func dataWords() []vm.Word {
	return []vm.Word{
		vm.MustOrdinary("concat", func(a, b string) string { return a + b }),
		vm.MustOrdinary("strlen", func(s string) int { return utf8.RuneCountInString(s) }),

		vm.MustOrdinary("list", func() value.List { return value.NewList() }),
		vm.MustOrdinary("push", func(l value.List, r *value.Ref) value.List { return l.Append(r) }),
		vm.MustOrdinary("nth", nth),
		vm.MustOrdinary("len", func(l value.List) int { return l.Len() }),

		vm.MustOrdinary("map", func() value.Map { return value.NewMap() }),
		vm.MustOrdinary("assoc", func(m value.Map, k, v *value.Ref) value.Map { return m.Set(k, v) }),
		vm.MustOrdinary("get", get),
		vm.MustOrdinary("has", func(m value.Map, k *value.Ref) bool { _, ok := m.Get(k); return ok }),
		vm.MustOrdinary("keys", keys),

		vm.MustOrdinary("eq", func(a, b *value.Ref) bool { return a.Equal(b) }),
	}
}

func nth(l value.List, i int) (*value.Ref, error) {
	r, ok := l.Get(i)
	if !ok {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndex, i, l.Len())
	}
	return r, nil
}

func get(m value.Map, k *value.Ref) (*value.Ref, error) {
	r, ok := m.Get(k)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, k)
	}
	return r, nil
}

// keys lists the keys of m in display order.
func keys(m value.Map) value.List {
	ks := m.Keys()
	sort.Slice(ks, func(i, j int) bool { return ks[i].String() < ks[j].String() })
	return value.NewList(ks...)
}
