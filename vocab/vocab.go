// Package vocab implements the hierarchical dictionary that maps names to
// words. Each node guards its own tables with a reader/writer lock; a writer
// that panics poisons the node and every later access reports
// ErrLockPoisoned.
package vocab

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound     = errors.New("not found in vocabulary")
	ErrLockPoisoned = errors.New("vocabulary lock poisoned")
	ErrAtRoot       = errors.New("already at the root vocabulary")
)

// Named is the part of the word contract the vocabulary relies on.
type Named interface {
	Name() string
}

type PoisonedError struct {
	Node  uuid.UUID
	Cause any
}

func (e *PoisonedError) Error() string {
	return fmt.Sprintf("vocabulary %s: lock poisoned by failed writer: %v", e.Node, e.Cause)
}

func (e *PoisonedError) Is(target error) bool { return target == ErrLockPoisoned }

// Node is one vocabulary. Children and words are owned by the node; the
// parent link is weak and only used for lookups.
type Node[W Named] struct {
	id     uuid.UUID
	name   string
	parent weak.Pointer[Node[W]]

	mu       sync.RWMutex
	poisoned atomic.Pointer[PoisonedError]
	children map[string]*Node[W]
	words    map[string]W
}

func newNode[W Named](name string, parent *Node[W]) *Node[W] {
	n := &Node[W]{
		id:       uuid.New(),
		name:     name,
		children: make(map[string]*Node[W]),
		words:    make(map[string]W),
	}
	if parent != nil {
		n.parent = weak.Make(parent)
	}
	return n
}

func (n *Node[W]) ID() uuid.UUID { return n.id }
func (n *Node[W]) Name() string  { return n.name }

// Parent returns the enclosing vocabulary, or nil for the root.
func (n *Node[W]) Parent() *Node[W] { return n.parent.Value() }

func (n *Node[W]) read(f func()) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if p := n.poisoned.Load(); p != nil {
		return p
	}
	f()
	return nil
}

func (n *Node[W]) write(f func()) (err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if p := n.poisoned.Load(); p != nil {
		return p
	}
	defer func() {
		if r := recover(); r != nil {
			p := &PoisonedError{Node: n.id, Cause: r}
			n.poisoned.Store(p)
			err = p
		}
	}()
	f()
	return nil
}

// Lookup finds a word defined directly in this node.
func (n *Node[W]) Lookup(name string) (w W, ok bool, err error) {
	err = n.read(func() {
		w, ok = n.words[name]
	})
	return w, ok, err
}

// Define inserts w, replacing any word with the same name. It reports
// whether an earlier word was shadowed.
func (n *Node[W]) Define(w W) (shadowed bool, err error) {
	err = n.write(func() {
		name := w.Name()
		_, shadowed = n.words[name]
		n.words[name] = w
	})
	return shadowed, err
}

// Child returns the named child, creating it when create is set.
func (n *Node[W]) Child(name string, create bool) (*Node[W], error) {
	var child *Node[W]
	err := n.read(func() {
		child = n.children[name]
	})
	if err != nil || child != nil || !create {
		return child, err
	}
	err = n.write(func() {
		child = n.children[name]
		if child == nil {
			child = newNode(name, n)
			n.children[name] = child
		}
	})
	return child, err
}

// Words returns the node's words sorted by name.
func (n *Node[W]) Words() ([]W, error) {
	var out []W
	err := n.read(func() {
		names := make([]string, 0, len(n.words))
		for name := range n.words {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, n.words[name])
		}
	})
	return out, err
}

type Option func(*options)

type options struct {
	ancestors bool
}

// WithAncestors makes Resolve fall back to enclosing vocabularies when the
// current one has no match.
func WithAncestors(enabled bool) Option {
	return func(o *options) { o.ancestors = enabled }
}

// Tree is a vocabulary hierarchy with a current-scope pointer. The tree keeps
// the root alive; nodes are never removed individually.
type Tree[W Named] struct {
	root    *Node[W]
	current *Node[W]
	opts    options
}

func NewTree[W Named](opts ...Option) *Tree[W] {
	root := newNode[W]("", nil)
	t := &Tree[W]{root: root, current: root}
	for _, o := range opts {
		o(&t.opts)
	}
	return t
}

func (t *Tree[W]) Root() *Node[W]    { return t.root }
func (t *Tree[W]) Current() *Node[W] { return t.current }

// Resolve looks name up in the current vocabulary. Enclosing vocabularies
// are only consulted when the tree was built WithAncestors.
func (t *Tree[W]) Resolve(name string) (W, error) {
	var zero W
	for n := t.current; n != nil; n = n.Parent() {
		w, ok, err := n.Lookup(name)
		if err != nil {
			return zero, err
		}
		if ok {
			return w, nil
		}
		if !t.opts.ancestors {
			break
		}
	}
	return zero, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Append defines w in the current vocabulary; the newest definition wins.
func (t *Tree[W]) Append(w W) error {
	shadowed, err := t.current.Define(w)
	if err != nil {
		return err
	}
	if shadowed {
		log.Debug().Str("word", w.Name()).Strs("scope", t.Path()).Msg("vocab: shadowing existing word")
	}
	return nil
}

func (t *Tree[W]) EnterScope(name string) error {
	child, err := t.current.Child(name, true)
	if err != nil {
		return err
	}
	t.current = child
	log.Debug().Strs("scope", t.Path()).Msg("vocab: entered scope")
	return nil
}

func (t *Tree[W]) ExitScope() error {
	parent := t.current.Parent()
	if parent == nil {
		return ErrAtRoot
	}
	t.current = parent
	log.Debug().Strs("scope", t.Path()).Msg("vocab: exited scope")
	return nil
}

// Path returns the names from the root down to the current vocabulary. The
// root itself is unnamed and not included.
func (t *Tree[W]) Path() []string {
	var path []string
	for n := t.current; n != nil && n != t.root; n = n.Parent() {
		path = append(path, n.name)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
