// Package gui hosts gapflight in a desktop window using Ebitengine.
package gui

import (
	"fmt"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/core"
	"github.com/vovakirdan/gapflight/internal/replay"
	"github.com/vovakirdan/gapflight/internal/scene"
	"github.com/vovakirdan/gapflight/internal/sim"
)

const WindowTitle = "gapflight"

var (
	colSky    = color.RGBA{0x4e, 0xc0, 0xca, 0xff}
	colPipe   = color.RGBA{0x5c, 0xb8, 0x3a, 0xff}
	colCap    = color.RGBA{0x3e, 0x8e, 0x25, 0xff}
	colAvatar = color.RGBA{0xf5, 0xd3, 0x2b, 0xff}
	colGround = color.RGBA{0xde, 0xd8, 0x95, 0xff}
	colShade  = color.RGBA{0x00, 0x00, 0x00, 0x90}
)

const capHeight = 12

// Host is an ebiten.Game driving one sim.Game. Ebitengine calls Update once
// per tick, so every Update delivers the frame callback for the pending
// ticket.
type Host struct {
	cfg    config.Config
	game   *sim.Game
	logger *log.Logger

	ticket  sim.Ticket
	pending bool

	recorder *replay.Recorder
	sink     func(replay.Session)
	stopped  bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for game events.
func WithLogger(l *log.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithRecorder hands the recorded session to sink when the window closes.
func WithRecorder(sink func(replay.Session)) Option {
	return func(h *Host) { h.sink = sink }
}

// NewHost creates a host for a game using cfg and seed.
func NewHost(cfg config.Config, seed int64, opts ...Option) (*Host, error) {
	h := &Host{cfg: cfg, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(h)
	}

	game, err := sim.New(cfg, seed)
	if err != nil {
		return nil, err
	}
	h.game = game
	if h.sink != nil {
		h.recorder = replay.NewRecorder(cfg, seed)
	}
	return h, nil
}

// readAction polls the keyboard, mouse and touch screen.
func readAction() core.Action {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return core.ActionQuit
	case inpututil.IsKeyJustPressed(ebiten.KeySpace),
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		inpututil.IsKeyJustPressed(ebiten.KeyW),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0:
		return core.ActionPrimary
	}
	return core.ActionNone
}

// Update handles input, then runs the pending frame callback.
func (h *Host) Update() error {
	return h.update(readAction())
}

func (h *Host) update(action core.Action) error {
	switch action {
	case core.ActionQuit:
		h.Stop()
		return ebiten.Termination
	case core.ActionPrimary:
		if h.recorder != nil {
			h.recorder.Action(h.game)
		}
		if t, ok := h.game.PrimaryAction(); ok {
			h.ticket, h.pending = t, true
		}
	}

	if !h.pending {
		return nil
	}

	running := h.game.Phase() == sim.PhaseRunning
	h.ticket, h.pending = h.game.Tick(h.ticket)
	if running && h.game.Phase() == sim.PhaseOver {
		h.logger.Info("run over", "score", scene.FormatScore(h.game.Score()), "hit", h.game.LastHit())
	}
	return nil
}

// Draw renders the current snapshot in field coordinates.
func (h *Host) Draw(screen *ebiten.Image) {
	st := h.game.Snapshot()
	w := float32(h.cfg.Field.Width)
	fh := float32(h.cfg.Field.Height)

	screen.Fill(colSky)

	ow := float32(h.cfg.Obstacles.Width)
	gap := float32(h.cfg.Obstacles.GapHeight)
	for _, o := range st.Obstacles {
		x, top := float32(o.X), float32(o.GapTop)
		vector.DrawFilledRect(screen, x, 0, ow, top, colPipe, false)
		vector.DrawFilledRect(screen, x-2, top-capHeight, ow+4, capHeight, colCap, false)
		vector.DrawFilledRect(screen, x, top+gap, ow, fh-top-gap, colPipe, false)
		vector.DrawFilledRect(screen, x-2, top+gap, ow+4, capHeight, colCap, false)
	}

	vector.DrawFilledRect(screen,
		float32(h.cfg.Avatar.X), float32(st.Avatar.Y),
		float32(h.cfg.Avatar.Width), float32(h.cfg.Avatar.Height),
		colAvatar, true)
	vector.DrawFilledRect(screen, 0, fh-4, w, 4, colGround, false)

	ebitenutil.DebugPrintAt(screen, "Score: "+scene.FormatScore(st.Score), 8, 8)

	switch st.Phase {
	case sim.PhaseNotStarted:
		ebitenutil.DebugPrintAt(screen, "Press SPACE or click to flap", int(w)/2-84, int(fh)/3)
	case sim.PhaseOver:
		vector.DrawFilledRect(screen, 0, fh/2-40, w, 80, colShade, false)
		ebitenutil.DebugPrintAt(screen, "GAME OVER", int(w)/2-27, int(fh)/2-20)
		msg := fmt.Sprintf("Score: %s  |  SPACE to restart", scene.FormatScore(st.Score))
		ebitenutil.DebugPrintAt(screen, msg, int(w)/2-len(msg)*3, int(fh)/2+4)
	}
}

// Layout keeps the logical screen at the play-field size; Ebitengine scales
// it to the window.
func (h *Host) Layout(_, _ int) (int, int) {
	return int(h.cfg.Field.Width), int(h.cfg.Field.Height)
}

// Stop cancels the pending frame and hands off the recording. It is safe to
// call more than once.
func (h *Host) Stop() {
	if h.stopped {
		return
	}
	h.stopped = true
	h.pending = false
	h.game.Stop()

	if h.recorder != nil && h.recorder.Len() > 0 {
		s := h.recorder.Finish(h.game)
		h.logger.Info("session recorded", "id", s.ID, "actions", len(s.Actions))
		h.sink(s)
	}
}

// Run opens the window and blocks until it is closed.
func Run(h *Host) error {
	ebiten.SetWindowSize(int(h.cfg.Field.Width), int(h.cfg.Field.Height))
	ebiten.SetWindowTitle(WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(h.cfg.Timing.TickRate)

	err := ebiten.RunGame(h)
	h.Stop()
	if err != nil {
		return fmt.Errorf("gui: %w", err)
	}
	return nil
}
