package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/odra-lang/odra/internal/input"
	"github.com/odra-lang/odra/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var keepGoing bool

var runCmd = &cobra.Command{
	Use:   "run [FILE]",
	Short: "Run a program from a file, or stdin when no file is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Report failing tokens and continue instead of stopping at the first")
}

func runCommand(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	s, err := session.New(cfg, input.NewReader(in), os.Stdout)
	if err != nil {
		return err
	}
	s.Reporter = &session.ColorReporter{W: os.Stderr}
	if cmd.Flags().Changed("keep-going") {
		s.KeepGoing = keepGoing
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = s.Run(ctx)
	if err != nil {
		cmd.SilenceUsage = true
		log.Debug().Err(err).Msg("run stopped")
		// the session has already reported it
		return errReported
	}
	return nil
}
