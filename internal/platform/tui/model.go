package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/core"
	"github.com/vovakirdan/gapflight/internal/replay"
	"github.com/vovakirdan/gapflight/internal/scene"
	"github.com/vovakirdan/gapflight/internal/sim"
)

// Publisher receives every snapshot the model renders.
type Publisher interface {
	Publish(st sim.State)
}

// SessionSink receives the recorded session when the game is closed.
type SessionSink func(replay.Session)

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for game events.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithPublisher forwards every new snapshot to p.
func WithPublisher(p Publisher) Option {
	return func(m *Model) { m.publisher = p }
}

// WithRecorder records primary actions and hands the finished session to
// sink when the game is closed.
func WithRecorder(sink SessionSink) Option {
	return func(m *Model) { m.sink = sink }
}

// Model is the Bubble Tea model hosting one game.
type Model struct {
	game     *sim.Game
	scene    *scene.Scene
	screen   *core.Screen
	interval time.Duration
	seed     int64

	keys     KeyMap
	help     help.Model
	showHelp bool

	logger    *log.Logger
	publisher Publisher
	recorder  *replay.Recorder
	sink      SessionSink

	closeOnce *sync.Once // Shared by every copy of the model
	quitting  bool
}

// NewModel creates a model for a game using cfg. A zero seed in rt is
// replaced with the current time.
func NewModel(cfg config.Config, rt core.RuntimeConfig, opts ...Option) (Model, error) {
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	m := Model{
		scene:    scene.New(cfg),
		screen:   core.NewScreen(rt.ScreenW, playRows(rt.ScreenH)),
		interval: cfg.TickInterval(),
		seed:     rt.Seed,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		logger:   log.New(io.Discard),

		closeOnce: &sync.Once{},
	}
	for _, opt := range opts {
		opt(&m)
	}

	logger := m.logger
	game, err := sim.New(cfg, rt.Seed, sim.WithPhaseObserver(func(from, to sim.Phase) {
		logger.Debug("phase changed", "from", from, "to", to)
	}))
	if err != nil {
		return Model{}, err
	}
	m.game = game

	if m.sink != nil {
		m.recorder = replay.NewRecorder(cfg, rt.Seed)
	}

	m.logger.Info("game created", "seed", rt.Seed, "tick", m.interval)
	return m, nil
}

// playRows leaves one row for the key help line.
func playRows(h int) int {
	return max(h-1, 0)
}

// Init does nothing: the game waits for the first primary action.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The simulation is in field coordinates, so a resize only changes
		// the viewport.
		m.screen.Resize(msg.Width, playRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.quit()
		return m, tea.Quit

	case core.ActionHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case core.ActionPrimary:
		return m.primaryAction()
	}

	return m, nil
}

func (m Model) primaryAction() (tea.Model, tea.Cmd) {
	if m.recorder != nil {
		m.recorder.Action(m.game)
	}

	before := m.game.Phase()
	t, ok := m.game.PrimaryAction()

	if before == sim.PhaseOver {
		m.logger.Info("run reset")
	}
	m.publish()

	if !ok {
		return m, nil
	}
	return m, tickCmd(t, m.interval)
}

func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	running := m.game.Phase() == sim.PhaseRunning
	next, ok := m.game.Tick(msg.Ticket)

	if running && m.game.Phase() == sim.PhaseOver {
		m.logger.Info("run over",
			"score", scene.FormatScore(m.game.Score()),
			"hit", m.game.LastHit(),
			"ticks", m.game.Ticks(),
		)
	}
	m.publish()

	if !ok {
		return m, nil
	}
	return m, tickCmd(next, m.interval)
}

func (m *Model) publish() {
	if m.publisher != nil {
		m.publisher.Publish(m.game.Snapshot())
	}
}

func (m *Model) quit() {
	m.quitting = true
	m.Close()
}

// Close stops the game so in-flight ticks are ignored and hands off the
// recording. Only the first call on any copy of the model does anything.
// Hosts call it after the program ends, since a program can end without
// the quit key.
func (m Model) Close() {
	m.closeOnce.Do(func() {
		m.game.Stop()

		if m.recorder != nil && m.recorder.Len() > 0 {
			s := m.recorder.Finish(m.game)
			m.logger.Info("session recorded", "id", s.ID, "actions", len(s.Actions), "ticks", s.TotalTicks)
			m.sink(s)
		}
	})
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.scene.Draw(m.screen, m.game.Snapshot())
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Game returns the hosted game.
func (m Model) Game() *sim.Game {
	return m.game
}

// Seed returns the seed the game was created with.
func (m Model) Seed() int64 {
	return m.seed
}

// Run starts the Bubble Tea program for a local game and blocks until the
// player quits.
func Run(cfg config.Config, rt core.RuntimeConfig, opts ...Option) error {
	model, err := NewModel(cfg, rt, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	model.Close()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
