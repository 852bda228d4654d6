package sim

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/gapflight/internal/config"
)

// Spawner creates obstacles at the right edge of the play field on a timer.
type Spawner struct {
	rng       *rand.Rand
	cfg       *config.Config
	nextID    ObstacleID    // Never reset, so ids stay unique across runs
	lastSpawn time.Duration // Simulation time of the last spawn
	spawned   bool          // Whether anything was spawned since the last reset
}

// NewSpawner creates a spawner drawing gap positions from an RNG seeded with seed.
func NewSpawner(cfg *config.Config, seed int64) *Spawner {
	return &Spawner{
		rng: rand.New(rand.NewSource(seed)),
		cfg: cfg,
	}
}

// Reset clears the spawn timer. The id counter and RNG keep going.
func (sp *Spawner) Reset() {
	sp.lastSpawn = 0
	sp.spawned = false
}

// Due reports whether a spawn interval has elapsed at simulation time now.
// A fresh run spawns on its first tick.
func (sp *Spawner) Due(now time.Duration) bool {
	if !sp.spawned {
		return true
	}
	return now-sp.lastSpawn >= sp.cfg.Obstacles.SpawnInterval
}

// Spawn mints a new obstacle at the spawn coordinate and restarts the timer.
func (sp *Spawner) Spawn(now time.Duration) Obstacle {
	sp.nextID++
	sp.lastSpawn = now
	sp.spawned = true

	minTop := sp.cfg.Obstacles.MinGapTop
	span := sp.cfg.Obstacles.MaxGapTop - minTop

	return Obstacle{
		ID:     sp.nextID,
		X:      sp.cfg.SpawnX(),
		GapTop: minTop + sp.rng.Float64()*span,
	}
}

// LastSpawn returns the simulation time of the last spawn and whether there was one.
func (sp *Spawner) LastSpawn() (time.Duration, bool) {
	return sp.lastSpawn, sp.spawned
}

// Advance moves obstacles left by one tick, marks the ones the avatar has
// passed, and drops the ones that left the play field, in a single pass.
// It returns the surviving obstacles (reusing the backing array) and how many
// obstacles were scored this tick.
func Advance(obstacles []Obstacle, cfg *config.Config) ([]Obstacle, int) {
	speed := cfg.Obstacles.Speed
	width := cfg.Obstacles.Width
	retireX := cfg.RetireX()
	avatarX := cfg.Avatar.X

	scored := 0
	kept := obstacles[:0]
	for _, o := range obstacles {
		o.X -= speed

		// Trailing edge crossed the avatar column
		if !o.Scored && o.X+width < avatarX {
			o.Scored = true
			scored++
		}

		if o.X <= retireX {
			continue
		}
		kept = append(kept, o)
	}

	// Clear the tail so retired obstacles are not reachable through the array
	clear(obstacles[len(kept):])

	return kept, scored
}
