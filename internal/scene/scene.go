// Package scene draws simulation snapshots into a core.Screen.
// It is the terminal rendering collaborator: it reads a sim.State and never
// touches the game that produced it.
package scene

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/core"
	"github.com/vovakirdan/gapflight/internal/sim"
)

// Visual characters for rendering
const (
	AvatarChar    = '●'
	AvatarNose    = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '═'
)

// Scene maps play-field coordinates onto screen cells.
type Scene struct {
	cfg config.Config
}

// New creates a scene for games using cfg.
func New(cfg config.Config) *Scene {
	return &Scene{cfg: cfg}
}

// viewport holds the scale factors for one frame.
type viewport struct {
	sx, sy float64
	rows   int // Rows available to the play field (ground excluded)
}

func (sc *Scene) viewport(dst *core.Screen) viewport {
	rows := max(dst.Height()-1, 1)
	return viewport{
		sx:   float64(dst.Width()) / sc.cfg.Field.Width,
		sy:   float64(rows) / sc.cfg.Field.Height,
		rows: rows,
	}
}

// Draw renders st into dst. A nil or zero-size screen is skipped.
func (sc *Scene) Draw(dst *core.Screen, st sim.State) {
	if dst.Empty() {
		return
	}
	dst.Clear()
	vp := sc.viewport(dst)

	dst.DrawHLine(0, dst.Height()-1, dst.Width(), GroundChar, core.ColorGray)

	for _, o := range st.Obstacles {
		sc.drawObstacle(dst, vp, o)
	}
	sc.drawAvatar(dst, vp, st.Avatar)

	dst.DrawText(2, 0, fmt.Sprintf(" Score: %s ", FormatScore(st.Score)), core.ColorBrightWhite)

	switch st.Phase {
	case sim.PhaseNotStarted:
		dst.DrawTextCentered(vp.rows/3, "Press SPACE to flap", core.ColorCyan)
	case sim.PhaseOver:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %s  |  SPACE to restart", FormatScore(st.Score)))
	}
}

// drawObstacle renders the top pipe hanging from the ceiling and the bottom
// pipe standing on the ground, both with caps facing the gap.
func (sc *Scene) drawObstacle(dst *core.Screen, vp viewport, o sim.Obstacle) {
	x0 := int(math.Floor(o.X * vp.sx))
	x1 := max(int(math.Ceil((o.X+sc.cfg.Obstacles.Width)*vp.sx)), x0+1)
	gapTop := int(math.Round(o.GapTop * vp.sy))
	gapBottom := int(math.Round((o.GapTop + sc.cfg.Obstacles.GapHeight) * vp.sy))

	for x := x0; x < x1; x++ {
		for y := 0; y < gapTop; y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		if gapTop > 0 {
			dst.SetColored(x, gapTop-1, PipeCapTop, core.ColorBrightGreen)
		}

		for y := gapBottom; y < vp.rows; y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		if gapBottom < vp.rows {
			dst.SetColored(x, gapBottom, PipeCapBottom, core.ColorBrightGreen)
		}
	}
}

func (sc *Scene) drawAvatar(dst *core.Screen, vp viewport, a sim.Avatar) {
	x := int(math.Round(sc.cfg.Avatar.X * vp.sx))
	y := int(math.Round(a.Y * vp.sy))
	w := max(int(math.Round(sc.cfg.Avatar.Width*vp.sx)), 1)
	h := max(int(math.Round(sc.cfg.Avatar.Height*vp.sy)), 1)

	dst.FillRect(core.NewRect(x, y, w, h), AvatarChar, core.ColorBrightYellow)
	dst.SetColored(x+w-1, y, AvatarNose, core.ColorYellow)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len([]rune(subtitle))) + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+1, title, core.ColorRed)
	dst.DrawTextCentered(box.Y+3, subtitle, core.ColorBrightWhite)
}

// FormatScore prints a score without trailing zeros: 3, 3.5.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
