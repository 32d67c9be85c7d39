package vm

import (
	"github.com/odra-lang/odra/value"
)

type ThunkKind int

const (
	ThunkCall ThunkKind = iota
	ThunkPush
)

// Thunk is one deferred unit of work in the word under construction: either
// a call of an ordinary word or the push of a literal.
type Thunk struct {
	Kind  ThunkKind
	Word  Word
	Value *value.Ref
}

func CallThunk(w Word) Thunk       { return Thunk{Kind: ThunkCall, Word: w} }
func PushThunk(r *value.Ref) Thunk { return Thunk{Kind: ThunkPush, Value: r} }

func (t Thunk) Run(vm *VM) error {
	switch t.Kind {
	case ThunkPush:
		vm.Active().Push(t.Value)
		return nil
	default:
		return vm.invoke(t.Word)
	}
}

func (t Thunk) Name() string {
	if t.Kind == ThunkPush {
		return value.Format(t.Value.Value())
	}
	return t.Word.Name()
}

func (t Thunk) StackEffect() StackEffect {
	if t.Kind == ThunkPush {
		return Static(nil, []value.Kind{t.Value.Kind()})
	}
	return t.Word.StackEffect()
}

// Builder is the FIFO queue of thunks forming the word currently being built.
type Builder struct {
	queue []Thunk
}

func (b *Builder) Append(t Thunk) { b.queue = append(b.queue, t) }
func (b *Builder) Len() int       { return len(b.queue) }

func (b *Builder) Pending() []Thunk {
	out := make([]Thunk, len(b.queue))
	copy(out, b.queue)
	return out
}

// Take empties the queue and returns what it held.
func (b *Builder) Take() []Thunk {
	q := b.queue
	b.queue = nil
	return q
}
