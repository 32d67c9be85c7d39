package cas

import (
	"fmt"
	"sort"

	"github.com/odra-lang/odra/value"
)

// Stack is one fibre stack as handed to the store, bottom to top.
type Stack struct {
	Fibre  string
	Values []*value.Ref
}

func decomposeStack(c *MemoryCAS, s Stack) (Hash, error) {
	active := make(map[*value.Ref]bool)
	hashes := make([]Hash, len(s.Values))
	for i, r := range s.Values {
		h, err := decomposeValue(c, r, active)
		if err != nil {
			return 0, fmt.Errorf("decomposing stack value %d: %w", i, err)
		}
		hashes[i] = h
	}
	return putDirect(c, &StackRef{Fibre: s.Fibre, ValueHashes: hashes})
}

// decomposeValue stores r and everything it reaches. active holds the
// aggregates on the current path; meeting one again is a cycle, which has
// no finite content hash.
func decomposeValue(c *MemoryCAS, r *value.Ref, active map[*value.Ref]bool) (Hash, error) {
	switch v := r.Value().(type) {
	case value.Number:
		return putDirect(c, &ScalarRef{Kind: kindNumber, Number: float64(v)})
	case value.String:
		return putDirect(c, &ScalarRef{Kind: kindString, Text: string(v)})
	}

	if active[r] {
		return 0, ErrCycle
	}
	active[r] = true
	defer delete(active, r)

	switch v := r.Value().(type) {
	case value.List:
		hashes := make([]Hash, 0, v.Len())
		for i, item := range v.Items() {
			h, err := decomposeValue(c, item, active)
			if err != nil {
				return 0, fmt.Errorf("list element %d: %w", i, err)
			}
			hashes = append(hashes, h)
		}
		return putDirect(c, &ListRef{ElementHashes: hashes})
	case value.Map:
		type pair struct{ k, v Hash }
		var pairs []pair
		var err error
		v.Each(func(k, val *value.Ref) bool {
			var p pair
			if p.k, err = decomposeValue(c, k, active); err != nil {
				err = fmt.Errorf("map key %s: %w", k, err)
				return false
			}
			if p.v, err = decomposeValue(c, val, active); err != nil {
				err = fmt.Errorf("map value at %s: %w", k, err)
				return false
			}
			pairs = append(pairs, p)
			return true
		})
		if err != nil {
			return 0, err
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].k != pairs[j].k {
				return pairs[i].k < pairs[j].k
			}
			return pairs[i].v < pairs[j].v
		})
		ref := &MapRef{
			KeyHashes:   make([]Hash, len(pairs)),
			ValueHashes: make([]Hash, len(pairs)),
		}
		for i, p := range pairs {
			ref.KeyHashes[i], ref.ValueHashes[i] = p.k, p.v
		}
		return putDirect(c, ref)
	default:
		return 0, fmt.Errorf("cannot decompose %s value", r.Kind())
	}
}
