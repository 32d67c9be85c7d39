package words

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/odra-lang/odra/internal/cas"
	"github.com/odra-lang/odra/internal/input"
	"github.com/odra-lang/odra/value"
	"github.com/odra-lang/odra/vm"
	"github.com/odra-lang/odra/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	vm  *vm.VM
	out *bytes.Buffer
}

func newHarness(t *testing.T, src string, opts ...vm.Option) *harness {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]vm.Option{
		vm.WithRegistry(Registry()),
		vm.WithSource(input.NewReader(strings.NewReader(src))),
		vm.WithOutput(out),
	}, opts...)
	m, err := vm.New(opts...)
	require.NoError(t, err)
	return &harness{vm: m, out: out}
}

// exec runs every token and returns the first error.
func (h *harness) exec() error {
	for {
		tok, err := h.vm.NextToken()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := h.vm.Run(tok); err != nil {
			return err
		}
	}
}

func (h *harness) stack() string { return h.vm.Active().String() }

func TestPrograms(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{name: "deferred add", src: "one two add run", want: "[3]"},
		{name: "arithmetic", src: "num 10 num 4 sub num 3 mul num 2 div neg run", want: "[-9]"},
		{name: "fractions", src: "num 1 num 4 div run", want: "[0.25]"},
		{name: "dup drop", src: "one dup two drop run", want: "[1 1]"},
		{name: "swap over", src: "one two swap over run", want: "[2 1 2]"},
		{name: "depth", src: "one one depth run", want: "[1 1 2]"},
		{name: "clear", src: "one two clear run", want: "[]"},
		{name: "strings", src: `str "héllo " str world concat dup strlen run`, want: `["héllo world" 11]`},
		{name: "lists", src: "list one push two push dup len run", want: "[[1, 2] 2]"},
		{name: "nth", src: "list num 7 push num 8 push one nth run", want: "[8]"},
		{name: "maps", src: "map str a one assoc str b two assoc dup str b get swap keys run", want: `[2 ["a", "b"]]`},
		{name: "has", src: "map str k one assoc str k has run", want: "[1]"},
		{name: "eq scalars", src: "num 3 one two add eq run", want: "[1]"},
		{name: "eq lists by identity", src: "list list eq run", want: "[0]"},
		{name: "definition", src: "one two add : three three three add run", want: "[6]"},
		{name: "times", src: "one times: 3 dup run", want: "[1 1 1 1]"},
		{name: "times zero", src: "one times: 0 dup run", want: "[1]"},
		{name: "eval", src: "one two run eval: s[0] + s[1] * 10 ; run", want: "[1 2 21]"},
		{name: "eval list", src: "eval: [ 1 , 2 ] ; len run", want: "[2]"},
		{name: "multiple drains", src: "one run two run add run", want: "[3]"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, tc.src)
			require.NoError(t, h.exec())
			assert.Equal(t, tc.want, h.stack())
		})
	}
}

func TestProgramErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		src   string
		err   error
		stack string
	}{
		{name: "underflow", src: "one run add run", err: vm.ErrStackUnderflow, stack: "[1]"},
		{name: "divide by zero", src: "one num 0 div run", err: ErrDivideByZero, stack: "[]"},
		{name: "unknown word", src: "one run frob", err: vm.ErrResolution, stack: "[1]"},
		{name: "bad number", src: "num x", err: ErrBadOperand, stack: "[]"},
		{name: "missing operand", src: "num", err: ErrMissingOperand, stack: "[]"},
		{name: "nth out of range", src: "list one nth run", err: ErrIndex, stack: "[]"},
		{name: "missing key", src: "map one get run", err: ErrKeyNotFound, stack: "[]"},
		{name: "wrong kind", src: "str a one add run", err: value.ErrConversion, stack: "[]"},
		{name: "empty definition", src: ": nothing", err: vm.ErrNoDefinition, stack: "[]"},
		{name: "unterminated eval", src: "eval: 1 + 2", err: ErrMissingOperand, stack: "[]"},
		{name: "too many times", src: "times: 99999 one", err: ErrBadOperand, stack: "[]"},
		{name: "exit root scope", src: "end-scope", err: vocab.ErrAtRoot, stack: "[]"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, tc.src)
			err := h.exec()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, tc.stack, h.stack())
		})
	}
}

func TestPrinting(t *testing.T) {
	h := newHarness(t, "one two .s print_stack pending run")
	require.NoError(t, h.exec())
	assert.Equal(t, "[]\n[one two print_stack]\n[1 2]\n", h.out.String())
}

func TestWordsListing(t *testing.T) {
	h := newHarness(t, "words")
	require.NoError(t, h.exec())
	out := h.out.String()
	assert.Contains(t, out, "add          ( Number Number -- Number )\n")
	assert.Contains(t, out, "run          ( ? ) immediate\n")
	assert.Contains(t, out, "dup          ( Any -- Any Any )\n")
}

func TestScopes(t *testing.T) {
	h := newHarness(t, "scope: math one two add : three end-scope three", vm.WithAncestorResolution(true))
	err := h.exec()
	assert.ErrorIs(t, err, vm.ErrResolution)

	h = newHarness(t, "scope: math one two add : three three run end-scope", vm.WithAncestorResolution(true))
	require.NoError(t, h.exec())
	assert.Equal(t, "[3]", h.stack())
	assert.Empty(t, h.vm.Scope())

	h = newHarness(t, "scope: math num 7 : seven seven run end-scope seven")
	err = h.exec()
	assert.ErrorIs(t, err, vm.ErrResolution)
	assert.Equal(t, "[7]", h.stack())
	assert.Empty(t, h.vm.Scope())

	h = newHarness(t, "scope: math one")
	assert.ErrorIs(t, h.exec(), vm.ErrResolution)
}

func TestEvalSeesOnlyDrainedValues(t *testing.T) {
	h := newHarness(t, "one two eval: s[0] ;")
	require.Error(t, h.exec())
	assert.Equal(t, "[]", h.stack())
	assert.Len(t, h.vm.Pending(), 2)

	h = newHarness(t, "one two run eval: s[0] ; run")
	require.NoError(t, h.exec())
	assert.Equal(t, "[1 2 1]", h.stack())
}

func TestFibreWords(t *testing.T) {
	h := newHarness(t, "one two run send: worker fibre: worker dup run")
	require.NoError(t, h.exec())
	assert.Equal(t, "worker", h.vm.Active().Name())
	assert.Equal(t, "[2 2]", h.stack())
	assert.Equal(t, "[1]", h.vm.Main().String())
}

func TestHistoryWords(t *testing.T) {
	h := newHarness(t, "history")
	assert.ErrorIs(t, h.exec(), vm.ErrNoHistory)

	h = newHarness(t, "one run two run undo history", vm.WithHistory(cas.NewHistory(16)))
	require.NoError(t, h.exec())
	assert.Equal(t, "[1]", h.stack())
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "depth=1")
}

func TestDefinitionEffect(t *testing.T) {
	h := newHarness(t, "str a str b concat strlen : slen")
	require.NoError(t, h.exec())
	w, err := h.vm.Resolve("slen")
	require.NoError(t, err)
	assert.Equal(t, "( -- Number )", w.StackEffect().String())
	assert.False(t, w.IsMacro())
}
