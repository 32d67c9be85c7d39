package words

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/odra-lang/odra/internal/backend"
	"github.com/odra-lang/odra/value"
	"github.com/odra-lang/odra/vm"
	"github.com/rs/zerolog/log"
)

// maxRepeat bounds times: so a typo cannot queue millions of tokens.
const maxRepeat = 10000

func macros(engine *backend.Starlark) []vm.Word {
	return []vm.Word{
		vm.MustMacro("run", func(m *vm.VM) error { return m.RunWordBeingBuilt() }),
		vm.MustMacro(".s", printStack),
		vm.MustMacro("num", num),
		vm.MustMacro("str", str),
		vm.MustMacro(":", define),
		vm.MustMacro("scope:", func(m *vm.VM) error {
			name, err := operand(m, "scope:")
			if err != nil {
				return err
			}
			return m.EnterScope(name)
		}),
		vm.MustMacro("end-scope", func(m *vm.VM) error { return m.ExitScope() }),
		vm.MustMacro("words", listWords),
		vm.MustMacro("pending", pending),
		vm.MustMacro("fibre:", func(m *vm.VM) error {
			name, err := operand(m, "fibre:")
			if err != nil {
				return err
			}
			m.SwitchFibre(name)
			return nil
		}),
		vm.MustMacro("send:", send),
		vm.MustMacro("times:", times),
		vm.MustMacro("eval:", func(m *vm.VM) error { return eval(m, engine) }),
		vm.MustMacro("history", history),
		vm.MustMacro("undo", func(m *vm.VM) error {
			e, err := m.Undo()
			if err != nil {
				return err
			}
			log.Debug().Int("seq", e.Seq).Str("fibre", e.Fibre).Msg("undo")
			return nil
		}),
	}
}

// operand reads the token a macro needs after itself.
func operand(m *vm.VM, macro string) (string, error) {
	tok, err := m.NextToken()
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %s expects a token", ErrMissingOperand, macro)
	}
	return tok, err
}

func num(m *vm.VM) error {
	tok, err := operand(m, "num")
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return fmt.Errorf("%w: num %q", ErrBadOperand, tok)
	}
	m.AppendThunk(vm.PushThunk(value.Num(f)))
	return nil
}

func str(m *vm.VM) error {
	tok, err := operand(m, "str")
	if err != nil {
		return err
	}
	if strings.HasPrefix(tok, `"`) {
		s, err := strconv.Unquote(tok)
		if err != nil {
			return fmt.Errorf("%w: str %s", ErrBadOperand, tok)
		}
		tok = s
	}
	m.AppendThunk(vm.PushThunk(value.Str(tok)))
	return nil
}

// define turns everything queued so far into a named word.
func define(m *vm.VM) error {
	name, err := operand(m, ":")
	if err != nil {
		return err
	}
	body, err := m.TakeDefinition()
	if err != nil {
		return fmt.Errorf("defining %s: %w", name, err)
	}
	c, err := vm.NewCompound(name, body)
	if err != nil {
		return err
	}
	if err := c.Register(m); err != nil {
		return err
	}
	log.Debug().Str("word", name).Stringer("effect", c.StackEffect()).Msg("defined")
	return nil
}

func listWords(m *vm.VM) error {
	ws, err := m.Words()
	if err != nil {
		return err
	}
	for _, w := range ws {
		line := fmt.Sprintf("%-12s %s", w.Name(), w.StackEffect())
		if w.IsMacro() {
			line += " immediate"
		}
		if _, err := fmt.Fprintln(m.Out(), line); err != nil {
			return err
		}
	}
	return nil
}

func pending(m *vm.VM) error {
	q := m.Pending()
	names := make([]string, len(q))
	for i, t := range q {
		names[i] = t.Name()
	}
	_, err := fmt.Fprintf(m.Out(), "[%s]\n", strings.Join(names, " "))
	return err
}

// send moves the top of the active fibre onto another fibre.
func send(m *vm.VM) error {
	name, err := operand(m, "send:")
	if err != nil {
		return err
	}
	r, err := m.Active().Pop()
	if err != nil {
		return err
	}
	m.Fibre(name).Push(r)
	return nil
}

// times queues WORD n times in front of the remaining input.
func times(m *vm.VM) error {
	count, err := operand(m, "times:")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 || n > maxRepeat {
		return fmt.Errorf("%w: times: %q", ErrBadOperand, count)
	}
	word, err := operand(m, "times:")
	if err != nil {
		return err
	}
	toks := make([]string, n)
	for i := range toks {
		toks[i] = word
	}
	return m.Unshift(toks...)
}

// eval reads tokens up to a lone ; and queues the value of that Starlark
// expression as a literal. The expression runs when the macro does, so s is
// the active stack at that moment: values still waiting in the word being
// built are not on it yet, and "one two eval: s[0] ;" fails.
func eval(m *vm.VM, engine *backend.Starlark) error {
	var src []string
	for {
		tok, err := m.NextToken()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: eval: is missing its closing ;", ErrMissingOperand)
		}
		if err != nil {
			return err
		}
		if tok == ";" {
			break
		}
		src = append(src, tok)
	}
	r, err := engine.Eval(strings.Join(src, " "), m.Active().Values())
	if err != nil {
		return err
	}
	if r != nil {
		m.AppendThunk(vm.PushThunk(r))
	}
	return nil
}

func history(m *vm.VM) error {
	h := m.History()
	if h == nil {
		return vm.ErrNoHistory
	}
	for _, e := range h.Entries() {
		if _, err := fmt.Fprintf(m.Out(), "%4d %-8s depth=%d %016x\n", e.Seq, e.Fibre, e.Depth, uint64(e.Hash)); err != nil {
			return err
		}
	}
	return nil
}
