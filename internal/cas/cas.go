// Package cas is a content-addressed in-memory store for value stacks.
// Values are decomposed into per-node entries keyed by the farm hash of
// their msgpack encoding, so snapshots that share structure share storage.
package cas

import (
	"bytes"
	"fmt"
)

type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
	getValue(h Hash) (bool, []byte, error)
}

type Hash uint64

func Retrieve[T Hashable](c CAS, hash Hash) (T, error) {
	var t T
	has, data, err := c.getValue(hash)
	if err != nil {
		return t, err
	}
	if !has {
		return t, fmt.Errorf("%w: %d", ErrNotFound, hash)
	}
	instance, err := decodeEntry(data)
	if err != nil {
		return t, err
	}
	result, ok := instance.(T)
	if !ok {
		return t, fmt.Errorf("type mismatch: expected %T, got %T", t, instance)
	}
	return result, nil
}

func decodeEntry(data []byte) (Hashable, error) {
	typedEntry := &TypedEntry{}
	if err := typedEntry.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("deserializing TypedEntry: %w", err)
	}
	instance, err := createInstance(typedEntry.TypeTag)
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	if err := instance.Deserialize(bytes.NewReader(typedEntry.Data)); err != nil {
		return nil, fmt.Errorf("deserializing data: %w", err)
	}
	return instance, nil
}
