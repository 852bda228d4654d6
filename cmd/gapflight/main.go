// gapflight is a one-button side-scrolling flight game for the terminal.
//
// Usage:
//
//	gapflight play            - Play in this terminal
//	gapflight serve           - Start SSH server for remote play
//	gapflight replays         - List recorded sessions
//	gapflight replay <id>     - Re-simulate and verify a recorded session
//	gapflight config          - Print the effective game configuration
//
// Global flags:
//
//	--config <path>     - Game configuration YAML
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Session database (default: ~/.gapflight/sessions.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gapflight/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gapflight",
	Short: "gapflight - flap through the gaps in your terminal",
	Long: `gapflight is a one-button game: gravity pulls the avatar down, every
press flaps it up, and scrolling obstacles leave a single gap to fly through.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  replays  - List and delete recorded sessions
  replay   - Re-simulate a recorded session
  config   - Print the effective configuration

Examples:
  gapflight play
  gapflight play --seed 42 --feed :8080
  gapflight serve --ssh :2222
  gapflight replay 7d9c3f0e-...`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gapflight/sessions.db", "Path to session database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the game configuration from --config and the default
// search path.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// seed returns --seed, or the current time when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newLogger builds the process logger. Logs go to --log-file when set,
// otherwise to fallback. The returned func closes the log file.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}
