package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nstehr/gambit/config"
	"github.com/nstehr/gambit/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gambit",
	Short: "Gambit - rule-driven battle decisions",
	Long: `Gambit compiles prioritised rule lists into typed decision trees that
pick each character's action in a turn-based team battle.

The CLI checks rule files, documents the token set and plays simulated
battles. The decision sidecar itself is started by the gambit binary at the
repository root.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger.Setup(&config.Config{Environment: "development", LogLevel: level})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
