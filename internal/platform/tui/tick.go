// Package tui provides the Bubble Tea host for gapflight.
// It maps keys to the primary action, delivers frame callbacks for the
// game's tickets and renders snapshots through the terminal scene.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gapflight/internal/sim"
)

// TickMsg is the frame callback for one ticket.
type TickMsg struct {
	Ticket sim.Ticket
	Time   time.Time
}

// tickCmd schedules the frame callback for ticket t one interval from now.
func tickCmd(t sim.Ticket, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(now time.Time) tea.Msg {
		return TickMsg{Ticket: t, Time: now}
	})
}
