// Package replay records play sessions as the tick index of every primary
// action and re-simulates them deterministically.
//
// A session starts when a game is created and covers every run played in
// it, resets included. Because the game advances only through ticks and
// primary actions, seed + config + action ticks reproduce it exactly.
package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/sim"
)

// ErrDiverged is returned when a session does not reproduce.
var ErrDiverged = errors.New("replay: session diverged")

// Session is a recorded play session.
type Session struct {
	ID         string
	Seed       int64
	Config     config.Config
	ConfigHash uint64 // Fingerprint of Config at recording time, zero if unknown
	Actions    []int  // Game.TotalTicks at each primary action, in order
	TotalTicks int    // Game.TotalTicks when recording finished
	Checksum   uint64 // Checksum of the final snapshot
	CreatedAt  time.Time
}

// Recorder collects primary actions for one game.
type Recorder struct {
	seed    int64
	cfg     config.Config
	hash    uint64
	actions []int
}

// NewRecorder creates a recorder for a game created with cfg and seed.
func NewRecorder(cfg config.Config, seed int64) *Recorder {
	hash, _ := Fingerprint(cfg) // Zero disables the config check in Verify
	return &Recorder{
		seed:    seed,
		cfg:     cfg,
		hash:    hash,
		actions: make([]int, 0, 64),
	}
}

// Action records a primary action about to be delivered to g.
func (r *Recorder) Action(g *sim.Game) {
	r.actions = append(r.actions, g.TotalTicks())
}

// Len returns the number of recorded actions.
func (r *Recorder) Len() int {
	return len(r.actions)
}

// Finish seals the recording against the current state of g.
func (r *Recorder) Finish(g *sim.Game) Session {
	actions := make([]int, len(r.actions))
	copy(actions, r.actions)

	return Session{
		ID:         uuid.NewString(),
		Seed:       r.seed,
		Config:     r.cfg,
		ConfigHash: r.hash,
		Actions:    actions,
		TotalTicks: g.TotalTicks(),
		Checksum:   Checksum(g.Snapshot()),
		CreatedAt:  time.Now().UTC(),
	}
}

// Run re-simulates s headlessly and returns the final snapshot.
// It fails with ErrDiverged if the recorded actions cannot be replayed, for
// example when a tick is due while the game is not running.
func Run(s Session) (sim.State, error) {
	g, err := sim.New(s.Config, s.Seed)
	if err != nil {
		return sim.State{}, fmt.Errorf("replay: %w", err)
	}
	defer g.Stop()

	var (
		tk      sim.Ticket
		running bool
	)

	advance := func(target int) error {
		if target < g.TotalTicks() {
			return fmt.Errorf("%w: action at tick %d recorded after tick %d", ErrDiverged, target, g.TotalTicks())
		}
		for g.TotalTicks() < target {
			if !running {
				return fmt.Errorf("%w: game stopped at tick %d, expected to reach %d", ErrDiverged, g.TotalTicks(), target)
			}
			tk, running = g.Tick(tk)
		}
		return nil
	}

	for _, at := range s.Actions {
		if err := advance(at); err != nil {
			return sim.State{}, err
		}
		if next, ok := g.PrimaryAction(); ok {
			tk, running = next, true
		} else if g.Phase() != sim.PhaseRunning {
			running = false
		}
	}
	if err := advance(s.TotalTicks); err != nil {
		return sim.State{}, err
	}

	return g.Snapshot(), nil
}

// Verify re-simulates s and checks the final snapshot against its checksum.
// A session whose config no longer matches its fingerprint fails without
// being replayed.
func Verify(s Session) (sim.State, error) {
	if s.ConfigHash != 0 {
		got, err := Fingerprint(s.Config)
		if err != nil {
			return sim.State{}, fmt.Errorf("replay: %w", err)
		}
		if got != s.ConfigHash {
			return sim.State{}, fmt.Errorf("%w: config fingerprint %016x, recorded %016x", ErrDiverged, got, s.ConfigHash)
		}
	}

	st, err := Run(s)
	if err != nil {
		return st, err
	}
	if got := Checksum(st); got != s.Checksum {
		return st, fmt.Errorf("%w: checksum %016x, recorded %016x", ErrDiverged, got, s.Checksum)
	}
	return st, nil
}

// Checksum hashes every field of st that affects gameplay.
func Checksum(st sim.State) uint64 {
	buf := make([]byte, 0, 32+len(st.Obstacles)*32)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(st.Avatar.Y))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(st.Avatar.VY))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(st.Score))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(st.Phase))
	for _, o := range st.Obstacles {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(o.ID))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(o.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(o.GapTop))
		scored := byte(0)
		if o.Scored {
			scored = 1
		}
		buf = append(buf, scored)
	}
	return xxhash.Sum64(buf)
}

// Fingerprint hashes the YAML encoding of cfg, so sessions recorded under
// different tunings can be told apart.
func Fingerprint(cfg config.Config) (uint64, error) {
	data, err := config.Marshal(cfg)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
