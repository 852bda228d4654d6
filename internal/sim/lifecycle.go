package sim

// PhaseObserver is notified after every phase transition.
type PhaseObserver func(from, to Phase)

// phaseOnPrimaryAction returns the phase a primary action leads to.
// Over leads back to NotStarted through a full reset.
func phaseOnPrimaryAction(p Phase) Phase {
	switch p {
	case PhaseNotStarted:
		return PhaseRunning
	case PhaseOver:
		return PhaseNotStarted
	default:
		return p
	}
}

// phaseOnHit returns the phase after a collision test with result h.
// Only a running game can end.
func phaseOnHit(p Phase, h Hit) Phase {
	if p == PhaseRunning && h != HitNone {
		return PhaseOver
	}
	return p
}
