package cas

import (
	"fmt"

	"github.com/odra-lang/odra/value"
)

// RetrieveStack rebuilds a stack stored with PutStack. Aggregates come back
// as fresh values, so they do not share identity with the originals.
func RetrieveStack(c CAS, hash Hash) (Stack, error) {
	ref, err := Retrieve[*StackRef](c, hash)
	if err != nil {
		return Stack{}, fmt.Errorf("retrieving StackRef: %w", err)
	}
	s := Stack{Fibre: ref.Fibre, Values: make([]*value.Ref, len(ref.ValueHashes))}
	for i, h := range ref.ValueHashes {
		if s.Values[i], err = recomposeValue(c, h); err != nil {
			return Stack{}, fmt.Errorf("recomposing stack value %d: %w", i, err)
		}
	}
	return s, nil
}

func recomposeValue(c CAS, hash Hash) (*value.Ref, error) {
	has, data, err := c.getValue(hash)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, hash)
	}
	entry, err := decodeEntry(data)
	if err != nil {
		return nil, err
	}

	switch v := entry.(type) {
	case *ScalarRef:
		switch v.Kind {
		case kindNumber:
			return value.Num(v.Number), nil
		case kindString:
			return value.Str(v.Text), nil
		}
		return nil, fmt.Errorf("unknown scalar kind %d", v.Kind)
	case *ListRef:
		items := make([]*value.Ref, len(v.ElementHashes))
		for i, h := range v.ElementHashes {
			if items[i], err = recomposeValue(c, h); err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
		}
		return value.ListOf(items...), nil
	case *MapRef:
		if len(v.KeyHashes) != len(v.ValueHashes) {
			return nil, fmt.Errorf("map entry %d: %d keys for %d values", hash, len(v.KeyHashes), len(v.ValueHashes))
		}
		m := value.NewMap()
		for i := range v.KeyHashes {
			k, err := recomposeValue(c, v.KeyHashes[i])
			if err != nil {
				return nil, fmt.Errorf("map key %d: %w", i, err)
			}
			val, err := recomposeValue(c, v.ValueHashes[i])
			if err != nil {
				return nil, fmt.Errorf("map value %d: %w", i, err)
			}
			m = m.Set(k, val)
		}
		return value.New(m), nil
	default:
		return nil, fmt.Errorf("entry %d holds %T, not a value", hash, entry)
	}
}
