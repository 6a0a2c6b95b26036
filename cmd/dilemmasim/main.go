// Command dilemmasim runs repeated-game social dilemma simulations from the
// command line: configure a population of strategies, run the engine, inspect
// and archive the results.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables, loadable from a .env file in the working directory.
const (
	envDBPath   = "DILEMMALAB_DB"
	envLogLevel = "DILEMMALAB_LOG"
)

const defaultDBPath = "data/dilemmalab.db"

func main() {
	// A missing .env is fine; explicit env vars and flags still apply.
	_ = godotenv.Load()

	setupLogging(os.Getenv(envLogLevel))

	root := &cobra.Command{
		Use:   "dilemmasim",
		Short: "Run repeated-game social dilemma simulations",
		Long: `dilemmasim runs agent-based simulations of social dilemmas —
iterated prisoner's dilemma, tragedy of the commons, the free rider
problem, and the public goods game — and reports per-strategy outcomes.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newStrategiesCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(level string) {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

// dbPath resolves the archive location from the environment.
func dbPath() string {
	if p := os.Getenv(envDBPath); p != "" {
		return p
	}
	return defaultDBPath
}
