package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/gapflight/internal/config"
)

func TestDetect(t *testing.T) {
	cfg := config.Default()
	gapTop := 200.0
	gapBottom := gapTop + cfg.Obstacles.GapHeight
	margin := cfg.Avatar.HitboxMargin
	near := Obstacle{ID: 1, X: cfg.Avatar.X, GapTop: gapTop}
	far := Obstacle{ID: 2, X: cfg.Avatar.X + 200, GapTop: gapTop}

	tests := []struct {
		name      string
		y         float64
		obstacles []Obstacle
		expected  Hit
	}{
		{"open field", 300, nil, HitNone},
		{"inside gap", gapTop + 50, []Obstacle{near}, HitNone},
		{"below gap bottom minus margin", gapBottom - margin + 1, []Obstacle{near}, HitBottomPipe},
		{"above gap top", gapTop - 20, []Obstacle{near}, HitTopPipe},
		{"margin forgives grazing the top", gapTop - margin, []Obstacle{near}, HitNone},
		{"obstacle outside proximity", gapBottom + 50, []Obstacle{far}, HitNone},
		{"at upper boundary", cfg.Field.Height, nil, HitBoundary},
		{"past upper boundary", cfg.Field.Height + 10, nil, HitBoundary},
		{"above the field", -0.5, nil, HitBoundary},
		{"at zero", 0, nil, HitNone},
		{"boundary wins over obstacles", cfg.Field.Height, []Obstacle{near}, HitBoundary},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := State{Avatar: Avatar{Y: tc.y}, Obstacles: tc.obstacles, Phase: PhaseRunning}
			assert.Equal(t, tc.expected, Detect(st, &cfg))
		})
	}
}

func TestInProximity(t *testing.T) {
	cfg := config.Default()
	box := AvatarHitbox(100, &cfg)

	tests := []struct {
		name     string
		x        float64
		expected bool
	}{
		{"over the avatar", cfg.Avatar.X, true},
		{"leading edge just inside box", box.Right - 1, true},
		{"leading edge on box edge", box.Right, false},
		{"trailing edge just inside box", box.Left - cfg.Obstacles.Width + 1, true},
		{"trailing edge on box edge", box.Left - cfg.Obstacles.Width, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, InProximity(Obstacle{X: tc.x}, box, &cfg))
		})
	}
}

func TestAvatarHitboxIsSmallerThanSprite(t *testing.T) {
	cfg := config.Default()
	box := AvatarHitbox(100, &cfg)

	assert.Greater(t, box.Left, cfg.Avatar.X)
	assert.Less(t, box.Right, cfg.Avatar.X+cfg.Avatar.Width)
	assert.Greater(t, box.Top, 100.0)
	assert.Less(t, box.Bottom, 100+cfg.Avatar.Height)
}

func TestHitString(t *testing.T) {
	assert.Equal(t, "bottom pipe", HitBottomPipe.String())
	assert.Equal(t, "unknown", Hit(42).String())
}
