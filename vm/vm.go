package vm

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/benbjohnson/immutable"
	"github.com/odra-lang/odra/internal/cas"
	"github.com/odra-lang/odra/internal/panicerr"
	"github.com/odra-lang/odra/value"
	"github.com/odra-lang/odra/vocab"
	"github.com/rs/zerolog/log"
)

const MainFibre = "main"

type State int

const (
	Idle State = iota
	Accumulating
	Draining
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Accumulating:
		return "accumulating"
	case Draining:
		return "draining"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TokenSource feeds tokens to macros that read ahead. Next returns io.EOF
// once input is exhausted; Unshift puts tokens back to be read next, in
// order.
type TokenSource interface {
	Next() (string, error)
	Unshift(tokens ...string)
}

type Option func(*VM)

func WithRegistry(r *Registry) Option {
	return func(vm *VM) { vm.registry = r }
}

func WithSource(src TokenSource) Option {
	return func(vm *VM) { vm.source = src }
}

func WithOutput(w io.Writer) Option {
	return func(vm *VM) { vm.out = w }
}

// WithAncestorResolution lets tokens resolve against enclosing
// vocabularies when the current one has no match.
func WithAncestorResolution(enabled bool) Option {
	return func(vm *VM) { vm.ancestors = enabled }
}

func WithHistory(h *cas.History) Option {
	return func(vm *VM) { vm.history = h }
}

// VM holds the fibres, the vocabulary tree and the word under
// construction. It processes one token at a time and is not safe for
// concurrent use.
type VM struct {
	vocab    *vocab.Tree[Word]
	fibres   map[string]*Fibre
	main     *Fibre
	active   *Fibre
	builder  Builder
	draining bool

	source    TokenSource
	out       io.Writer
	history   *cas.History
	registry  *Registry
	ancestors bool
}

func New(opts ...Option) (*VM, error) {
	vm := &VM{
		fibres: make(map[string]*Fibre),
		out:    io.Discard,
	}
	for _, o := range opts {
		o(vm)
	}
	vm.vocab = vocab.NewTree[Word](vocab.WithAncestors(vm.ancestors))
	vm.main = vm.Fibre(MainFibre)
	vm.active = vm.main

	if vm.registry != nil {
		if err := vm.registry.RegisterAll(vm); err != nil {
			return nil, err
		}
	}
	vm.record()
	return vm, nil
}

// Run processes one token: it resolves the token in the current
// vocabulary and dispatches the word. A token that does not resolve leaves
// the VM untouched.
func (vm *VM) Run(token string) error {
	w, err := vm.resolve(token)
	if err != nil {
		if errors.Is(err, vocab.ErrNotFound) {
			err = ErrResolution
		}
		log.Trace().Str("token", token).Err(err).Msg("resolve failed")
		return &TokenError{Token: token, Err: err}
	}
	log.Trace().Str("token", token).Bool("macro", w.IsMacro()).Msg("dispatch")
	if err := w.Exec(vm); err != nil {
		return &TokenError{Token: token, Err: err}
	}
	return nil
}

func (vm *VM) invoke(w Word) error {
	log.Trace().Str("word", w.Name()).Str("fibre", vm.active.name).Msg("invoke")
	return panicerr.Recover(w.Name(), func() error {
		return w.Invoke(vm)
	})
}

type snapshot struct {
	stacks map[string]*immutable.List[*value.Ref]
	active *Fibre
}

func (vm *VM) snapshot() snapshot {
	s := snapshot{stacks: make(map[string]*immutable.List[*value.Ref], len(vm.fibres)), active: vm.active}
	for name, f := range vm.fibres {
		s.stacks[name] = f.stack
	}
	return s
}

func (vm *VM) restore(s snapshot) {
	for name, f := range vm.fibres {
		stack, ok := s.stacks[name]
		if !ok {
			delete(vm.fibres, name)
			continue
		}
		f.stack = stack
	}
	vm.active = s.active
}

// RunWordBeingBuilt invokes the queued thunks in order and empties the
// queue. If any thunk fails, every fibre is put back the way it was before
// the drain and the failing word is reported in a *WordError.
func (vm *VM) RunWordBeingBuilt() error {
	if vm.draining {
		return ErrReentrantDrain
	}
	queue := vm.builder.Take()
	if len(queue) == 0 {
		return nil
	}

	saved := vm.snapshot()
	vm.draining = true
	defer func() { vm.draining = false }()
	log.Trace().Int("thunks", len(queue)).Msg("drain")

	for _, t := range queue {
		if err := t.Run(vm); err != nil {
			vm.restore(saved)
			vm.builder.Take()
			log.Debug().Str("word", t.Name()).Err(err).Msg("drain rolled back")
			return &WordError{Word: t.Name(), Err: err}
		}
	}
	vm.record()
	return nil
}

func (vm *VM) record() {
	if vm.history == nil {
		return
	}
	if _, err := vm.history.Record(vm.active.name, vm.active.Values()); err != nil {
		log.Warn().Err(err).Msg("history snapshot failed")
	}
}

func (vm *VM) State() State {
	switch {
	case vm.draining:
		return Draining
	case vm.builder.Len() > 0:
		return Accumulating
	}
	return Idle
}

func (vm *VM) AppendThunk(t Thunk) {
	log.Trace().Str("thunk", t.Name()).Int("pending", vm.builder.Len()+1).Msg("append")
	vm.builder.Append(t)
}

func (vm *VM) Pending() []Thunk { return vm.builder.Pending() }

// TakeDefinition removes the whole word under construction so it can
// become the body of a named word.
func (vm *VM) TakeDefinition() ([]Thunk, error) {
	if vm.builder.Len() == 0 {
		return nil, ErrNoDefinition
	}
	return vm.builder.Take(), nil
}

// Register defines w in the current vocabulary.
func (vm *VM) Register(w Word) error {
	if err := validName(w.Name()); err != nil {
		return err
	}
	return vm.vocab.Append(w)
}

// Resolve finds the word a token names. The current vocabulary wins; when
// it has no match, an immediate word defined at the root still resolves,
// so scope control stays reachable from any depth.
func (vm *VM) Resolve(name string) (Word, error) {
	return vm.resolve(name)
}

func (vm *VM) resolve(name string) (Word, error) {
	w, err := vm.vocab.Resolve(name)
	if !errors.Is(err, vocab.ErrNotFound) {
		return w, err
	}
	rw, ok, rerr := vm.vocab.Root().Lookup(name)
	if rerr != nil {
		return nil, rerr
	}
	if ok && rw.IsMacro() {
		return rw, nil
	}
	return w, err
}

func (vm *VM) EnterScope(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	return vm.vocab.EnterScope(name)
}

func (vm *VM) ExitScope() error { return vm.vocab.ExitScope() }
func (vm *VM) Scope() []string  { return vm.vocab.Path() }

// Words lists the current vocabulary, sorted by name.
func (vm *VM) Words() ([]Word, error) {
	return vm.vocab.Current().Words()
}

func (vm *VM) Main() *Fibre   { return vm.main }
func (vm *VM) Active() *Fibre { return vm.active }

// Fibre returns the named fibre, creating it empty on first use.
func (vm *VM) Fibre(name string) *Fibre {
	f, ok := vm.fibres[name]
	if !ok {
		f = NewFibre(name)
		vm.fibres[name] = f
		log.Debug().Str("fibre", name).Msg("fibre created")
	}
	return f
}

func (vm *VM) SwitchFibre(name string) *Fibre {
	vm.active = vm.Fibre(name)
	return vm.active
}

func (vm *VM) Fibres() []string {
	names := make([]string, 0, len(vm.fibres))
	for name := range vm.fibres {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (vm *VM) NextToken() (string, error) {
	if vm.source == nil {
		return "", ErrNoSource
	}
	return vm.source.Next()
}

func (vm *VM) Unshift(tokens ...string) error {
	if vm.source == nil {
		return ErrNoSource
	}
	vm.source.Unshift(tokens...)
	return nil
}

func (vm *VM) Out() io.Writer { return vm.out }

func (vm *VM) History() *cas.History { return vm.history }

// Undo puts the fibre of the previous history snapshot back to its
// recorded stack.
func (vm *VM) Undo() (cas.Entry, error) {
	if vm.history == nil {
		return cas.Entry{}, ErrNoHistory
	}
	e, stack, err := vm.history.Back()
	if err != nil {
		return cas.Entry{}, err
	}
	vm.Fibre(e.Fibre).Replace(stack)
	return e, nil
}

// Push converts v and pushes it onto the active fibre.
func Push[T any](vm *VM, v T) error {
	r, err := value.Of(v)
	if err != nil {
		return err
	}
	vm.active.Push(r)
	return nil
}

// Pop takes the top of the active fibre as a T. On a conversion failure the
// value stays on the stack.
func Pop[T any](vm *VM) (T, error) {
	var zero T
	r, err := vm.active.Pop()
	if err != nil {
		return zero, err
	}
	out, err := value.As[T](r)
	if err != nil {
		vm.active.Push(r)
		return zero, err
	}
	return out, nil
}
