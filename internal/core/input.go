package core

// Action represents a semantic input, abstracted from physical keys, taps and
// clicks. The game itself only understands ActionPrimary; the rest belong to
// the host.
type Action int

const (
	ActionNone    Action = iota
	ActionPrimary        // Space, Up, W, click, tap - jump, start, restart
	ActionHelp           // ? - toggle key help
	ActionQuit           // Q, Esc, Ctrl+C - leave the game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPrimary:
		return "Primary"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
