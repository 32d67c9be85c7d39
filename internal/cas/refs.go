package cas

import (
	"io"

	"github.com/shamaton/msgpack/v2"
)

const (
	kindNumber uint8 = iota + 1
	kindString
)

// ScalarRef is the stored form of a number or a string.
type ScalarRef struct {
	Kind   uint8
	Number float64
	Text   string
}

func (s *ScalarRef) Serialize(w io.Writer) error   { return msgpack.MarshalWrite(w, s) }
func (s *ScalarRef) Deserialize(r io.Reader) error { return msgpack.UnmarshalRead(r, s) }

// ListRef stores a list as the hashes of its elements, in order.
type ListRef struct {
	ElementHashes []Hash
}

func (l *ListRef) Serialize(w io.Writer) error   { return msgpack.MarshalWrite(w, l) }
func (l *ListRef) Deserialize(r io.Reader) error { return msgpack.UnmarshalRead(r, l) }

// MapRef stores a map as parallel key and value hash lists, sorted by key
// hash so equal maps encode identically.
type MapRef struct {
	KeyHashes   []Hash
	ValueHashes []Hash
}

func (m *MapRef) Serialize(w io.Writer) error   { return msgpack.MarshalWrite(w, m) }
func (m *MapRef) Deserialize(r io.Reader) error { return msgpack.UnmarshalRead(r, m) }

// StackRef is the stored form of one fibre stack, bottom to top.
type StackRef struct {
	Fibre       string
	ValueHashes []Hash
}

func (s *StackRef) Serialize(w io.Writer) error   { return msgpack.MarshalWrite(w, s) }
func (s *StackRef) Deserialize(r io.Reader) error { return msgpack.UnmarshalRead(r, s) }
