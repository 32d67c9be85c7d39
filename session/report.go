package session

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/odra-lang/odra/internal/panicerr"
	"github.com/odra-lang/odra/vm"
	"github.com/rs/zerolog/log"
)

// Reporter shows errors and the final stack to the user.
type Reporter interface {
	Error(line int, err error)
	Stack(f *vm.Fibre)
}

// ColorReporter writes to W, coloured unless Plain is set.
type ColorReporter struct {
	W     io.Writer
	Plain bool
}

func (r *ColorReporter) Error(line int, err error) {
	if panicerr.IsPanic(err) {
		log.Debug().Str("stack", panicerr.Stack(err)).Msg("word panicked")
	}
	prefix := "error: "
	if line > 0 {
		prefix = fmt.Sprintf("error: line %d: ", line)
	}
	if r.Plain {
		fmt.Fprintf(r.W, "%s%v\n", prefix, err)
		return
	}
	fmt.Fprintln(r.W, color.Red.Sprint(prefix)+color.Yellow.Sprint(err.Error()))
}

func (r *ColorReporter) Stack(f *vm.Fibre) {
	name := ""
	if f.Name() != vm.MainFibre {
		name = f.Name() + ": "
	}
	if r.Plain {
		fmt.Fprintf(r.W, "%s%s\n", name, f)
		return
	}
	fmt.Fprintln(r.W, color.Cyan.Sprint(name)+color.Bold.Sprint(f.String()))
}
