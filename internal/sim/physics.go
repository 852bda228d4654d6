package sim

// Integrate advances the avatar by one tick: velocity first, then position.
func Integrate(a Avatar, gravity float64) Avatar {
	a.VY += gravity
	a.Y += a.VY
	return a
}

// ApplyImpulse replaces the avatar's velocity with impulse.
// A jump overwrites the current velocity rather than adding to it.
func ApplyImpulse(a Avatar, impulse float64) Avatar {
	a.VY = impulse
	return a
}
