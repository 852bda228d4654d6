package sim

import "github.com/vovakirdan/gapflight/internal/config"

// Hit describes why a run ended.
type Hit int

const (
	HitNone Hit = iota
	HitBoundary
	HitTopPipe
	HitBottomPipe
)

// String returns a human-readable name for the hit.
func (h Hit) String() string {
	switch h {
	case HitNone:
		return "none"
	case HitBoundary:
		return "boundary"
	case HitTopPipe:
		return "top pipe"
	case HitBottomPipe:
		return "bottom pipe"
	default:
		return "unknown"
	}
}

// Hitbox is the avatar's collision box, inset from its visual size.
type Hitbox struct {
	Left, Right float64
	Top, Bottom float64
}

// AvatarHitbox returns the collision box of an avatar at vertical position y.
func AvatarHitbox(y float64, cfg *config.Config) Hitbox {
	m := cfg.Avatar.HitboxMargin
	return Hitbox{
		Left:   cfg.Avatar.X + m,
		Right:  cfg.Avatar.X + cfg.Avatar.Width - m,
		Top:    y + m,
		Bottom: y + cfg.Avatar.Height - m,
	}
}

// OutOfBounds reports whether y lies outside [0, field height).
func OutOfBounds(y float64, cfg *config.Config) bool {
	return y < 0 || y >= cfg.Field.Height
}

// InProximity reports whether an obstacle's horizontal span overlaps the
// avatar's collision box.
func InProximity(o Obstacle, box Hitbox, cfg *config.Config) bool {
	return o.X < box.Right && o.X+cfg.Obstacles.Width > box.Left
}

// Detect tests the avatar in st against the play-field boundary and every
// obstacle in the proximity window. It must be given post-integration state.
func Detect(st State, cfg *config.Config) Hit {
	if OutOfBounds(st.Avatar.Y, cfg) {
		return HitBoundary
	}

	box := AvatarHitbox(st.Avatar.Y, cfg)
	for _, o := range st.Obstacles {
		if !InProximity(o, box, cfg) {
			continue
		}
		if box.Top < o.GapTop {
			return HitTopPipe
		}
		if box.Bottom > o.GapTop+cfg.Obstacles.GapHeight {
			return HitBottomPipe
		}
	}
	return HitNone
}
