package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/sim"
)

// player drives a game the way a host does: it records every primary
// action and delivers the frame callback for each issued ticket.
type player struct {
	g       *sim.Game
	rec     *Recorder
	tk      sim.Ticket
	running bool
}

func newPlayer(t *testing.T, cfg config.Config, seed int64) *player {
	t.Helper()
	g, err := sim.New(cfg, seed)
	require.NoError(t, err)
	return &player{g: g, rec: NewRecorder(cfg, seed)}
}

func (p *player) act() {
	p.rec.Action(p.g)
	if next, ok := p.g.PrimaryAction(); ok {
		p.tk, p.running = next, true
	} else if p.g.Phase() != sim.PhaseRunning {
		p.running = false
	}
}

// flapEvery starts a run and flaps every n ticks until the run ends or the
// session reaches limit ticks.
func (p *player) flapEvery(n, limit int) {
	p.act()
	for p.running && p.g.TotalTicks() < limit {
		p.tk, p.running = p.g.Tick(p.tk)
		if p.running && p.g.Ticks()%n == 0 {
			p.act()
		}
	}
}

func TestVerifyReproducesSession(t *testing.T) {
	p := newPlayer(t, config.Default(), 42)

	p.flapEvery(20, 2000)
	if p.g.Phase() == sim.PhaseOver {
		p.act() // Reset
		p.flapEvery(35, 4000)
	}
	s := p.rec.Finish(p.g)

	require.NotEmpty(t, s.ID)
	require.Equal(t, p.rec.Len(), len(s.Actions))

	st, err := Verify(s)
	require.NoError(t, err)
	assert.Equal(t, p.g.Snapshot(), st)
}

func TestVerifyAcrossSeveralRuns(t *testing.T) {
	p := newPlayer(t, config.Default(), 7)

	for range 3 {
		p.flapEvery(25, 1<<20)
		require.Equal(t, sim.PhaseOver, p.g.Phase())
		p.act()
	}
	s := p.rec.Finish(p.g)

	st, err := Verify(s)
	require.NoError(t, err)
	assert.Equal(t, sim.PhaseNotStarted, st.Phase)
	assert.Equal(t, p.g.TotalTicks(), s.TotalTicks)
}

func TestVerifyDetectsTamperedChecksum(t *testing.T) {
	p := newPlayer(t, config.Default(), 1)
	p.flapEvery(20, 300)
	s := p.rec.Finish(p.g)
	s.Checksum++

	_, err := Verify(s)
	assert.ErrorIs(t, err, ErrDiverged)
}

func TestVerifyDetectsDifferentSeed(t *testing.T) {
	p := newPlayer(t, config.Default(), 1)
	p.flapEvery(20, 400)
	s := p.rec.Finish(p.g)
	require.NotEmpty(t, p.g.Snapshot().Obstacles)

	s.Seed = 2
	_, err := Verify(s)
	assert.ErrorIs(t, err, ErrDiverged)
}

func TestVerifyDetectsChangedConfig(t *testing.T) {
	p := newPlayer(t, config.Default(), 1)
	p.flapEvery(20, 300)
	s := p.rec.Finish(p.g)

	want, err := Fingerprint(config.Default())
	require.NoError(t, err)
	assert.Equal(t, want, s.ConfigHash)

	s.Config.Physics.Gravity += 0.1
	_, err = Verify(s)
	assert.ErrorIs(t, err, ErrDiverged)
	assert.ErrorContains(t, err, "config fingerprint")
}

func TestVerifySkipsUnknownFingerprint(t *testing.T) {
	p := newPlayer(t, config.Default(), 1)
	p.flapEvery(20, 300)
	s := p.rec.Finish(p.g)
	s.ConfigHash = 0

	_, err := Verify(s)
	assert.NoError(t, err)
}

func TestRunRejectsImpossibleSessions(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name    string
		session Session
	}{
		{"ticks without a run", Session{Config: cfg, TotalTicks: 10}},
		{"actions out of order", Session{Config: cfg, Actions: []int{0, 10, 5}, TotalTicks: 20}},
		{"total before last action", Session{Config: cfg, Actions: []int{0, 10}, TotalTicks: 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(tc.session)
			assert.ErrorIs(t, err, ErrDiverged)
		})
	}
}

func TestRunEmptySession(t *testing.T) {
	cfg := config.Default()

	st, err := Run(Session{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, sim.PhaseNotStarted, st.Phase)
	assert.Equal(t, cfg.Avatar.StartY, st.Avatar.Y)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Obstacles.GapHeight = -1

	_, err := Run(Session{Config: cfg})
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.NotErrorIs(t, err, ErrDiverged)
}

func TestFinishCopiesActions(t *testing.T) {
	p := newPlayer(t, config.Default(), 3)
	p.act()
	s := p.rec.Finish(p.g)

	p.act()
	assert.Len(t, s.Actions, 1)
	assert.Equal(t, 2, p.rec.Len())
}

func TestChecksum(t *testing.T) {
	base := sim.State{
		Avatar:    sim.Avatar{Y: 100, VY: -3},
		Obstacles: []sim.Obstacle{{ID: 1, X: 200, GapTop: 120}},
		Score:     0.5,
		Phase:     sim.PhaseRunning,
	}
	sum := Checksum(base)

	assert.Equal(t, sum, Checksum(base.Clone()), "checksum must be stable")

	changes := map[string]func(*sim.State){
		"avatar y":  func(s *sim.State) { s.Avatar.Y++ },
		"velocity":  func(s *sim.State) { s.Avatar.VY = 0 },
		"score":     func(s *sim.State) { s.Score = 1 },
		"phase":     func(s *sim.State) { s.Phase = sim.PhaseOver },
		"scored":    func(s *sim.State) { s.Obstacles[0].Scored = true },
		"gap":       func(s *sim.State) { s.Obstacles[0].GapTop = 121 },
		"obstacles": func(s *sim.State) { s.Obstacles = s.Obstacles[:0] },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			st := base.Clone()
			change(&st)
			assert.NotEqual(t, sum, Checksum(st))
		})
	}
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(config.Default())
	require.NoError(t, err)
	b, err := Fingerprint(config.Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg := config.Default()
	cfg.Physics.Gravity = 0.6
	c, err := Fingerprint(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
