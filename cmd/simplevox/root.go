package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MechaUma/SimpleVox/config"
)

// Shared flags, bound by SetupRootCmd's PersistentFlags.
var (
	cfgFile string
	verbose bool
)

// SetupRootCmd builds the simplevox command tree.
func SetupRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simplevox",
		Short: "Isolated-word voice detection",
		Long: `simplevox records, enrolls, and matches short spoken utterances
using a VAD + MFCC + DTW pipeline.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.simplevox.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log state transitions and per-frame detail")

	rootCmd.AddCommand(RecordCmd())
	rootCmd.AddCommand(EnrollCmd())
	rootCmd.AddCommand(MatchCmd())
	rootCmd.AddCommand(ListenCmd())

	return rootCmd
}

// loadConfig resolves the --config flag through config.LoadWithFallback.
func loadConfig() (*config.Config, error) {
	return config.LoadWithFallback(cfgFile)
}

// newLogger returns a text logger at Debug level when --verbose is
// set, Warn otherwise, so per-frame state transitions stay silent by
// default.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	var out io.Writer = os.Stderr
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
