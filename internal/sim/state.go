// Package sim implements the deterministic simulation of a side-scrolling
// avoidance game: an avatar falls under gravity, receives upward impulses from
// a single primary action, and must pass through gaps in obstacles that scroll
// toward it.
//
// The package contains pure logic with no UI, timer or I/O dependencies.
// Hosts drive it through Game: they forward primary actions, deliver frame
// callbacks for the tickets the game hands out, and read snapshots to render.
package sim

import "slices"

// Phase is the run-lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseRunning:
		return "Running"
	case PhaseOver:
		return "Over"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Avatar is the player-controlled entity. Its horizontal position is fixed by
// configuration and not stored.
type Avatar struct {
	Y  float64 `json:"y"`  // Vertical position, grows downward
	VY float64 `json:"vy"` // Vertical velocity per tick
}

// ObstacleID identifies an obstacle. Ids come from a monotonic counter and are
// never reused by the spawner that minted them.
type ObstacleID uint64

// Obstacle is a scrolling barrier with a vertical passable gap.
// The gap spans [GapTop, GapTop+gapHeight].
type Obstacle struct {
	ID     ObstacleID `json:"id"`
	X      float64    `json:"x"` // Left edge
	GapTop float64    `json:"gap_top"`
	Scored bool       `json:"scored"`
}

// State is the complete game state. Obstacles are kept in spawn order: the
// oldest, leftmost obstacle comes first.
type State struct {
	Avatar    Avatar     `json:"avatar"`
	Obstacles []Obstacle `json:"obstacles"`
	Score     float64    `json:"score"`
	Phase     Phase      `json:"phase"`
}

// Clone returns a deep copy that shares no storage with s.
func (s State) Clone() State {
	s.Obstacles = slices.Clone(s.Obstacles)
	if s.Obstacles == nil {
		s.Obstacles = []Obstacle{}
	}
	return s
}
