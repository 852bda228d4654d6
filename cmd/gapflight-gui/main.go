// gapflight-gui plays gapflight in a desktop window.
//
// It is a separate binary so that the terminal and SSH builds do not link
// the graphics stack.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/platform/gui"
	"github.com/vovakirdan/gapflight/internal/replay"
	"github.com/vovakirdan/gapflight/internal/storage"
)

var (
	flagConfig string
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gapflight-gui",
	Short: "Play gapflight in a desktop window",
	Long: `Open a window and play gapflight with the keyboard, mouse or touch screen.

Controls:
  Space/Up/W/click/tap - Flap, start a run, restart after game over
  Q/Esc                - Quit`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().StringVar(&flagDBPath, "db", "~/.gapflight/sessions.db", "Path to session database, empty disables recording")
}

func run(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gapflight-gui",
	})

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := []gui.Option{gui.WithLogger(logger)}
	if flagDBPath != "" {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open session database, recording disabled", "error", err)
		} else {
			defer store.Close()
			opts = append(opts, gui.WithRecorder(func(s replay.Session) {
				if err := store.SaveSession(s); err != nil {
					logger.Error("cannot save session", "id", s.ID, "error", err)
				}
			}))
		}
	}

	host, err := gui.NewHost(cfg, seed, opts...)
	if err != nil {
		return err
	}

	logger.Info("starting", "seed", seed)
	return gui.Run(host)
}
