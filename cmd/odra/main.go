package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odra-lang/odra/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errReported is returned by commands whose failure was already shown.
var errReported = errors.New("reported")

var (
	logLevel   string
	configPath string
	cfg        session.Config
)

var rootCmd = &cobra.Command{
	Use:           "odra",
	SilenceErrors: true,
	Short:         "A concatenative stack language",
	Long: `odra reads whitespace separated words. Ordinary words are queued into
the word being built and run together by "run"; immediate words act at once.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		var err error
		cfg, err = session.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", configPath, err)
		}

		if !cmd.Flags().Changed("log-level") && cfg.Log.Level != "" {
			logLevel = cfg.Log.Level
		}
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", logLevel)
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Path to a TOML config file")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(wordsCmd)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "odra", "config.toml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
