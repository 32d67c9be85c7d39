package cas

import (
	"bytes"
	"sync"

	"github.com/dgryski/go-farm"
)

type MemoryCAS struct {
	mu   sync.RWMutex
	data map[Hash][]byte
}

func NewMemoryCAS() *MemoryCAS {
	return &MemoryCAS{
		data: make(map[Hash][]byte),
	}
}

func (m *MemoryCAS) getValue(h Hash) (bool, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[h]
	if !ok {
		return false, nil, nil
	}
	return true, v, nil
}

func (m *MemoryCAS) Has(hash Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok
}

// Len is the number of distinct entries stored.
func (m *MemoryCAS) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCAS) Put(item Hashable) (Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return putDirect(m, item)
}

// PutStack decomposes a stack into the store and returns the hash of its
// StackRef.
func (m *MemoryCAS) PutStack(s Stack) (Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decomposeStack(m, s)
}

// putDirect stores item wrapped in a TypedEntry. The caller holds the lock.
func putDirect(c *MemoryCAS, item Hashable) (Hash, error) {
	var buf bytes.Buffer
	if err := item.Serialize(&buf); err != nil {
		return 0, err
	}
	data := buf.Bytes()
	h := Hash(farm.Hash64(data))
	if _, ok := c.data[h]; ok {
		return h, nil
	}

	entry := &TypedEntry{
		TypeTag: getTypeTag(item),
		Data:    data,
	}
	var entryBuf bytes.Buffer
	if err := entry.Serialize(&entryBuf); err != nil {
		return 0, err
	}
	// Keyed by the item's hash, not the entry's, so equal content shares a slot.
	c.data[h] = entryBuf.Bytes()
	return h, nil
}
