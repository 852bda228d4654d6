package scene

import (
	"strings"
	"testing"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/core"
	"github.com/vovakirdan/gapflight/internal/sim"
)

func testState(phase sim.Phase) sim.State {
	return sim.State{
		Avatar:    sim.Avatar{Y: 250},
		Obstacles: []sim.Obstacle{{ID: 1, X: 200, GapTop: 200}},
		Score:     1.5,
		Phase:     phase,
	}
}

func TestDrawGroundAndScore(t *testing.T) {
	sc := New(config.Default())
	screen := core.NewScreen(80, 24)

	sc.Draw(screen, testState(sim.PhaseRunning))

	if screen.Get(0, 23) != GroundChar {
		t.Errorf("ground should be drawn at bottom, got %q", screen.Get(0, 23))
	}
	if !strings.Contains(screen.Row(0), "Score: 1.5") {
		t.Errorf("score should be drawn in the HUD, row 0 = %q", screen.Row(0))
	}
}

func TestDrawAvatarAtFixedColumn(t *testing.T) {
	cfg := config.Default()
	sc := New(cfg)
	screen := core.NewScreen(80, 24)

	sc.Draw(screen, sim.State{Avatar: sim.Avatar{Y: 240}, Phase: sim.PhaseRunning})

	// 400px wide field on 80 columns: 5px per column; 600px on 23 rows
	x := 10
	y := 9 // round(240 * 23 / 600) = round(9.2)
	if got := screen.Get(x, y); got != AvatarChar {
		t.Errorf("avatar expected at (%d, %d), got %q\n%s", x, y, got, screen.String())
	}
}

func TestDrawObstacleLeavesGap(t *testing.T) {
	sc := New(config.Default())
	screen := core.NewScreen(80, 24)

	sc.Draw(screen, sim.State{
		Avatar:    sim.Avatar{Y: 10},
		Obstacles: []sim.Obstacle{{ID: 1, X: 300, GapTop: 240}},
		Phase:     sim.PhaseRunning,
	})

	col := 62 // Inside the 300..352px span
	if screen.Get(col, 1) != PipeChar {
		t.Errorf("top pipe expected at row 1, got %q", screen.Get(col, 1))
	}
	if screen.Get(col, 12) != ' ' {
		t.Errorf("gap expected at row 12, got %q", screen.Get(col, 12))
	}
	if screen.Get(col, 15) != PipeCapBottom {
		t.Errorf("bottom cap expected at row 15, got %q", screen.Get(col, 15))
	}
	if screen.Get(col, 21) != PipeChar {
		t.Errorf("bottom pipe expected at row 21, got %q", screen.Get(col, 21))
	}
}

func TestDrawOverlayOnlyWhenOver(t *testing.T) {
	sc := New(config.Default())

	tests := []struct {
		phase    sim.Phase
		gameOver bool
		hint     bool
	}{
		{sim.PhaseNotStarted, false, true},
		{sim.PhaseRunning, false, false},
		{sim.PhaseOver, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.phase.String(), func(t *testing.T) {
			screen := core.NewScreen(80, 24)
			sc.Draw(screen, testState(tc.phase))
			out := screen.String()

			if got := strings.Contains(out, "GAME OVER"); got != tc.gameOver {
				t.Errorf("game over overlay drawn = %v, expected %v", got, tc.gameOver)
			}
			if got := strings.Contains(out, "Press SPACE"); got != tc.hint {
				t.Errorf("start hint drawn = %v, expected %v", got, tc.hint)
			}
		})
	}
}

func TestDrawSkipsMissingSurface(t *testing.T) {
	sc := New(config.Default())
	st := testState(sim.PhaseOver)

	sc.Draw(nil, st)
	sc.Draw(core.NewScreen(0, 0), st)

	if len(st.Obstacles) != 1 || st.Score != 1.5 {
		t.Error("drawing must not modify the snapshot")
	}
}

func TestFormatScore(t *testing.T) {
	tests := map[float64]string{0: "0", 1: "1", 2.5: "2.5", 10.5: "10.5"}
	for in, want := range tests {
		if got := FormatScore(in); got != want {
			t.Errorf("FormatScore(%g) = %q, expected %q", in, got, want)
		}
	}
}
