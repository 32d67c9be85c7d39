// Package session drives a VM from a token source: each token goes to the
// VM, failures go to a Reporter, and the final stack is shown at the end of
// input.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/odra-lang/odra/vm"
	"github.com/odra-lang/odra/words"
	"github.com/rs/zerolog/log"
)

var ErrFailures = errors.New("tokens failed")

const continuePrompt = "... "

// Source is a token source that knows which line it is reading.
type Source interface {
	vm.TokenSource
	Line() int
}

type prompter interface {
	SetPrompt(string)
}

type Session struct {
	Reporter  Reporter
	KeepGoing bool

	cfg Config
	vm  *vm.VM
	src Source
}

// New builds a VM with the builtin words, reading from src and writing word
// output to out.
func New(cfg Config, src Source, out io.Writer) (*Session, error) {
	opts := append([]vm.Option{
		vm.WithRegistry(words.Registry()),
		vm.WithSource(src),
		vm.WithOutput(out),
	}, cfg.VMOptions()...)
	m, err := vm.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Session{
		Reporter:  &ColorReporter{W: out},
		KeepGoing: cfg.Session.KeepGoing,
		cfg:       cfg,
		vm:        m,
		src:       src,
	}, nil
}

func (s *Session) VM() *vm.VM { return s.vm }

// Run processes tokens until the input ends or ctx is done. Unless
// KeepGoing is set, the first failing token stops the run and its error is
// returned. With KeepGoing, a run that saw failures returns ErrFailures.
// Cancellation and read failures always stop the run; they are reported
// along with the stack as it stood.
func (s *Session) Run(ctx context.Context) error {
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return s.abort(err)
		}
		s.updatePrompt()
		tok, err := s.src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.abort(fmt.Errorf("reading input: %w", err))
		}
		if err := s.vm.Run(tok); err != nil {
			failures++
			s.Reporter.Error(s.src.Line(), err)
			if !s.KeepGoing {
				return err
			}
		}
	}

	if s.vm.State() == vm.Accumulating {
		log.Warn().Int("pending", len(s.vm.Pending())).Msg("input ended inside an unfinished word")
	}
	s.Reporter.Stack(s.vm.Active())
	if failures > 0 {
		return fmt.Errorf("%w: %d", ErrFailures, failures)
	}
	return nil
}

func (s *Session) abort(err error) error {
	s.Reporter.Error(0, err)
	s.Reporter.Stack(s.vm.Active())
	return err
}

func (s *Session) updatePrompt() {
	p, ok := s.src.(prompter)
	if !ok {
		return
	}
	if s.vm.State() == vm.Accumulating {
		p.SetPrompt(continuePrompt)
	} else {
		p.SetPrompt(s.cfg.Session.Prompt)
	}
}
