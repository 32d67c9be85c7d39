package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/odra-lang/odra/internal/input"
	"github.com/odra-lang/odra/session"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE:  replCommand,
}

func replCommand(cmd *cobra.Command, args []string) error {
	histPath := cfg.Session.HistoryFile
	if histPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, ".odra_history")
		}
	}

	ln := input.NewLiner(cfg.Session.Prompt, histPath)
	defer ln.Close()

	s, err := session.New(cfg, ln, os.Stdout)
	if err != nil {
		return err
	}
	s.KeepGoing = true

	fmt.Println(color.Cyan.Sprintf("odra %s", version) + color.Gray.Sprint(` - type words, "run" to execute, Ctrl-D to quit`))
	err = s.Run(context.Background())
	switch {
	case err == nil, errors.Is(err, session.ErrFailures):
		return nil
	default:
		return errReported
	}
}
