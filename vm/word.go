package vm

import (
	"fmt"
	"strings"
	"unicode"
)

// Word is an executable entry of a vocabulary.
//
// Exec is called when a token resolves to the word: macro words run their
// behaviour immediately, ordinary words append a thunk to the word under
// construction. Invoke runs the behaviour itself.
type Word interface {
	Name() string
	IsMacro() bool
	StackEffect() StackEffect
	Register(vm *VM) error
	Exec(vm *VM) error
	Invoke(vm *VM) error
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrRegistration)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: name %q contains whitespace", ErrRegistration, name)
	}
	return nil
}

// Registry is the table of words installed into a VM at startup.
type Registry struct {
	words []Word
}

func NewRegistry(words ...Word) *Registry {
	return &Registry{words: words}
}

func (r *Registry) Add(words ...Word) *Registry {
	r.words = append(r.words, words...)
	return r
}

func (r *Registry) Words() []Word {
	out := make([]Word, len(r.words))
	copy(out, r.words)
	return out
}

// RegisterAll registers every word, in order, into the VM's current
// vocabulary.
func (r *Registry) RegisterAll(vm *VM) error {
	for _, w := range r.words {
		if err := w.Register(vm); err != nil {
			return fmt.Errorf("registering %q: %w", w.Name(), err)
		}
	}
	return nil
}
