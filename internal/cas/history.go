package cas

import (
	"errors"
	"fmt"
	"sync"

	"github.com/odra-lang/odra/value"
	"github.com/rs/zerolog/log"
)

var ErrNoEarlierState = errors.New("no earlier state in history")

// Entry is one recorded stack snapshot.
type Entry struct {
	Seq   int
	Fibre string
	Hash  Hash
	Depth int
}

// History is an append-only log of stack snapshots backed by a MemoryCAS,
// read through an LRU cache. Consecutive identical snapshots are recorded
// once.
type History struct {
	mu      sync.Mutex
	store   *MemoryCAS
	reader  *LRUCache
	entries []Entry
	seq     int
}

func NewHistory(cacheSize int) *History {
	store := NewMemoryCAS()
	return &History{
		store:  store,
		reader: NewLRUCache(store, cacheSize),
	}
}

func (h *History) Record(fibre string, stack []*value.Ref) (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hash, err := h.store.PutStack(Stack{Fibre: fibre, Values: stack})
	if err != nil {
		return Entry{}, fmt.Errorf("recording %s: %w", fibre, err)
	}
	if n := len(h.entries); n > 0 && h.entries[n-1].Hash == hash {
		return h.entries[n-1], nil
	}
	h.seq++
	e := Entry{Seq: h.seq, Fibre: fibre, Hash: hash, Depth: len(stack)}
	h.entries = append(h.entries, e)
	log.Trace().Int("seq", e.Seq).Str("fibre", fibre).Uint64("hash", uint64(hash)).Msg("history snapshot")
	return e, nil
}

func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}

// Load rebuilds the stack recorded by e.
func (h *History) Load(e Entry) ([]*value.Ref, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := RetrieveStack(h.reader, e.Hash)
	if err != nil {
		return nil, err
	}
	return s.Values, nil
}

// Back discards the latest snapshot and returns the one before it together
// with its rebuilt stack.
func (h *History) Back() (Entry, []*value.Ref, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries)
	if n < 2 {
		return Entry{}, nil, ErrNoEarlierState
	}
	prev := h.entries[n-2]
	s, err := RetrieveStack(h.reader, prev.Hash)
	if err != nil {
		return Entry{}, nil, err
	}
	h.entries = h.entries[:n-1]
	return prev, s.Values, nil
}

// Stats reports the number of distinct stored entries and the read cache.
func (h *History) Stats() (int, CacheStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Len(), h.reader.Stats()
}
