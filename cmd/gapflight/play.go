package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vovakirdan/gapflight/internal/core"
	"github.com/vovakirdan/gapflight/internal/platform/feed"
	"github.com/vovakirdan/gapflight/internal/platform/tui"
	"github.com/vovakirdan/gapflight/internal/storage"
)

var (
	flagFeedAddr string
	flagRecord   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Space/Up/W/Enter - Flap, start a run, restart after game over
  ?                - Toggle key help
  Q/Esc/Ctrl+C     - Quit

The session is recorded to the session database unless --record=false.
With --feed, spectators can watch live snapshots over WebSocket at
ws://<addr>/feed.

Examples:
  gapflight play
  gapflight play --seed 42
  gapflight play --config ./hard.yaml
  gapflight play --feed :8080 --log-file gapflight.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Serve a spectator feed on this address (host:port)")
	playCmd.Flags().BoolVar(&flagRecord, "record", true, "Record the session for replay")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs are dropped unless --log-file is set.
	logger, closeLog, err := newLogger("gapflight", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	rt := core.DefaultConfig()
	rt.Seed = seed()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW, rt.ScreenH = w, h
	}

	opts := []tui.Option{tui.WithLogger(logger)}

	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open session database: %v\n", err)
		} else {
			defer store.Close()
			opts = append(opts, tui.WithRecorder(tui.SaveTo(store.SaveSession, logger)))
		}
	}

	if flagFeedAddr == "" {
		return tui.Run(cfg, rt, opts...)
	}

	hub := feed.NewHub(logger, feed.DefaultBuffer)
	opts = append(opts, tui.WithPublisher(hub))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.ListenAndServe(gctx, flagFeedAddr)
	})
	g.Go(func() error {
		defer cancel()
		return tui.Run(cfg, rt, opts...)
	})
	return g.Wait()
}
