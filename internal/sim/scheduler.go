package sim

// Ticket identifies one requested frame callback. The zero Ticket is never
// issued.
type Ticket uint64

// Scheduler tracks the single pending frame callback of a game.
//
// Hosts cannot always retract a callback once requested (a queued timer, a
// message already in flight), so cancellation is expressed by forgetting the
// pending ticket: a callback that arrives with any other ticket is dropped.
type Scheduler struct {
	last    Ticket
	pending Ticket
}

// Request issues a ticket for the next frame. If a frame is already pending,
// its ticket is returned with ok=false and the host must not request another
// callback.
func (s *Scheduler) Request() (t Ticket, ok bool) {
	if s.pending != 0 {
		return s.pending, false
	}
	s.last++
	s.pending = s.last
	return s.pending, true
}

// Accept consumes the pending ticket if t matches it.
func (s *Scheduler) Accept(t Ticket) bool {
	if t == 0 || t != s.pending {
		return false
	}
	s.pending = 0
	return true
}

// Cancel drops the pending ticket. It reports whether one was pending.
func (s *Scheduler) Cancel() bool {
	if s.pending == 0 {
		return false
	}
	s.pending = 0
	return true
}

// Pending returns the pending ticket, if any.
func (s *Scheduler) Pending() (Ticket, bool) {
	return s.pending, s.pending != 0
}
