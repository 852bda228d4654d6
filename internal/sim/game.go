package sim

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gapflight/internal/config"
)

// Game owns the game state and composes the per-tick pipeline:
// physics, collision and boundary test, spawning, then motion and scoring.
//
// Game is not safe for concurrent use. Hosts call it from their single
// update loop.
type Game struct {
	cfg     config.Config
	state   State
	spawner *Spawner
	sched   Scheduler

	clock      time.Duration // Simulation time of the current run
	ticks      int           // Ticks executed in the current run
	totalTicks int           // Ticks executed since construction
	lastHit    Hit

	observers []PhaseObserver
}

// Option configures a Game.
type Option func(*Game)

// WithPhaseObserver registers fn to be called after every phase transition.
func WithPhaseObserver(fn PhaseObserver) Option {
	return func(g *Game) {
		g.observers = append(g.observers, fn)
	}
}

// New creates a game in the NotStarted phase.
// It fails if cfg violates its contract (for example a negative gap height).
func New(cfg config.Config, seed int64, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	g := &Game{cfg: cfg}
	g.spawner = NewSpawner(&g.cfg, seed)
	g.state = g.initialState()

	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// initialState returns the state every run starts from.
func (g *Game) initialState() State {
	return State{
		Avatar: Avatar{
			Y:  g.cfg.Avatar.StartY,
			VY: g.cfg.Avatar.StartVelocity,
		},
		Obstacles: make([]Obstacle, 0, 8),
		Phase:     PhaseNotStarted,
	}
}

// PrimaryAction handles the single input event.
//
// NotStarted starts the run and jumps, Running jumps, Over resets to
// NotStarted. When the action leaves the game running without a pending
// frame, a new ticket is returned with ok=true and the host must deliver a
// frame callback for it.
func (g *Game) PrimaryAction() (Ticket, bool) {
	switch g.state.Phase {
	case PhaseOver:
		g.reset()
		return 0, false
	case PhaseNotStarted:
		g.setPhase(phaseOnPrimaryAction(g.state.Phase))
	}

	g.state.Avatar = ApplyImpulse(g.state.Avatar, g.cfg.Physics.JumpImpulse)
	return g.sched.Request()
}

// Tick runs one frame callback for ticket t. Callbacks with a stale or
// cancelled ticket are ignored. If the game is still running afterwards, the
// ticket for the next frame is returned with ok=true.
func (g *Game) Tick(t Ticket) (Ticket, bool) {
	if !g.sched.Accept(t) {
		return 0, false
	}
	if g.state.Phase != PhaseRunning {
		return 0, false
	}

	g.step()

	if g.state.Phase != PhaseRunning {
		return 0, false
	}
	return g.sched.Request()
}

// step advances the running game by exactly one tick.
func (g *Game) step() {
	g.ticks++
	g.totalTicks++
	g.clock = g.cfg.Elapsed(g.ticks)

	g.state.Avatar = Integrate(g.state.Avatar, g.cfg.Physics.Gravity)

	if hit := Detect(g.state, &g.cfg); hit != HitNone {
		g.lastHit = hit
		g.setPhase(phaseOnHit(g.state.Phase, hit))
		g.sched.Cancel()
		return
	}

	if g.spawner.Due(g.clock) {
		g.state.Obstacles = append(g.state.Obstacles, g.spawner.Spawn(g.clock))
	}

	var scored int
	g.state.Obstacles, scored = Advance(g.state.Obstacles, &g.cfg)
	g.state.Score += float64(scored) * g.cfg.Scoring.Increment
}

// reset restores the initial run state and cancels any pending frame.
func (g *Game) reset() {
	g.sched.Cancel()
	g.spawner.Reset()
	g.clock = 0
	g.ticks = 0
	g.lastHit = HitNone

	from := g.state.Phase
	g.state = g.initialState()
	g.notify(from, g.state.Phase)
}

// Stop cancels the pending frame. Hosts call it on teardown so that a
// callback already in flight does nothing when it arrives.
func (g *Game) Stop() {
	g.sched.Cancel()
}

func (g *Game) setPhase(p Phase) {
	from := g.state.Phase
	if from == p {
		return
	}
	g.state.Phase = p
	g.notify(from, p)
}

func (g *Game) notify(from, to Phase) {
	for _, fn := range g.observers {
		fn(from, to)
	}
}

// Snapshot returns a copy of the current state that shares no storage with
// the game.
func (g *Game) Snapshot() State {
	return g.state.Clone()
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.state.Phase
}

// Score returns the current score.
func (g *Game) Score() float64 {
	return g.state.Score
}

// Pending returns the ticket of the pending frame, if any.
func (g *Game) Pending() (Ticket, bool) {
	return g.sched.Pending()
}

// Ticks returns the number of ticks executed in the current run.
func (g *Game) Ticks() int {
	return g.ticks
}

// TotalTicks returns the number of ticks executed since the game was created.
func (g *Game) TotalTicks() int {
	return g.totalTicks
}

// Clock returns the simulation time of the current run.
func (g *Game) Clock() time.Duration {
	return g.clock
}

// LastHit returns what ended the last run, or HitNone.
func (g *Game) LastHit() Hit {
	return g.lastHit
}

// Config returns the configuration the game was created with.
func (g *Game) Config() config.Config {
	return g.cfg
}
