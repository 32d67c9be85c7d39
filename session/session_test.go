package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/odra-lang/odra/internal/input"
	"github.com/odra-lang/odra/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, src string, keepGoing bool) (*Session, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Session.KeepGoing = keepGoing
	s, err := New(cfg, input.NewReader(strings.NewReader(src)), out)
	require.NoError(t, err)
	s.Reporter = &ColorReporter{W: out, Plain: true}
	return s, out
}

func TestRunPrintsFinalStack(t *testing.T) {
	s, out := newSession(t, "one two add\nrun\n", false)
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "[3]\n", out.String())
}

func TestRunStopsAtFirstError(t *testing.T) {
	s, out := newSession(t, "one run\nfrob\ntwo run\n", false)
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, vm.ErrResolution)
	assert.Equal(t, "error: line 2: \"frob\": unknown word\n", out.String())
	assert.Equal(t, "[1]", s.VM().Main().String())
}

func TestRunKeepGoing(t *testing.T) {
	s, out := newSession(t, "one run\nfrob\nadd run\ntwo run\n", true)
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrFailures)
	assert.Contains(t, err.Error(), ": 2")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "line 3")
	assert.Equal(t, "[1 2]", lines[2])
}

func TestRunHonoursContext(t *testing.T) {
	s, out := newSession(t, "one run", false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	assert.Equal(t, "error: context canceled\n[]\n", out.String())
}

func TestRunAcceptsLongLines(t *testing.T) {
	long := strings.Repeat("x", 70000)
	s, out := newSession(t, "one run\n"+long+"\ntwo run\n", true)
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrFailures)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "error: line 2: "))
	assert.Contains(t, lines[0], "unknown word")
	assert.Equal(t, "[1 2]", lines[1])
}

func TestRunReportsReadFailure(t *testing.T) {
	broken := errors.New("device gone")
	out := &bytes.Buffer{}
	src := io.MultiReader(strings.NewReader("one run\n"), iotest.ErrReader(broken))
	s, err := New(DefaultConfig(), input.NewReader(src), out)
	require.NoError(t, err)
	s.Reporter = &ColorReporter{W: out, Plain: true}

	err = s.Run(context.Background())
	assert.ErrorIs(t, err, broken)
	assert.Equal(t, "error: reading input: device gone\n[1]\n", out.String())
}

func TestRunNamesOtherFibres(t *testing.T) {
	s, out := newSession(t, "fibre: side one run", false)
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "side: [1]\n", out.String())
}

type promptSource struct {
	*input.Reader
	prompts []string
}

func (p *promptSource) SetPrompt(s string) { p.prompts = append(p.prompts, s) }

func TestPromptFollowsState(t *testing.T) {
	src := &promptSource{Reader: input.NewReader(strings.NewReader("one run"))}
	s, err := New(DefaultConfig(), src, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []string{"odra> ", "... ", "odra> "}, src.prompts)
}
