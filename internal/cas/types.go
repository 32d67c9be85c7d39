package cas

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/shamaton/msgpack/v2"
)

var (
	ErrNotFound = errors.New("hash not found in CAS")
	ErrCycle    = errors.New("value graph contains a cycle")
)

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

// TypedEntry wraps a Hashable with a type tag for deserialization
type TypedEntry struct {
	TypeTag string
	Data    []byte
}

func (t *TypedEntry) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, t)
}

func (t *TypedEntry) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, t)
}

var typeRegistry = make(map[string]reflect.Type)

func registerType(tag string, example Hashable) {
	typeRegistry[tag] = reflect.TypeOf(example)
}

func init() {
	registerType("ScalarRef", &ScalarRef{})
	registerType("ListRef", &ListRef{})
	registerType("MapRef", &MapRef{})
	registerType("StackRef", &StackRef{})
}

func getTypeTag(item Hashable) string {
	t := reflect.TypeOf(item)
	for tag, regType := range typeRegistry {
		if t == regType {
			return tag
		}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func createInstance(tag string) (Hashable, error) {
	regType, ok := typeRegistry[tag]
	if !ok {
		return nil, fmt.Errorf("unknown type tag: %s", tag)
	}
	return reflect.New(regType.Elem()).Interface().(Hashable), nil
}
