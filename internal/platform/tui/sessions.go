package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gapflight/internal/replay"
	"github.com/vovakirdan/gapflight/internal/scene"
)

const maxSessions = 100

// SessionSource lists and deletes recorded sessions.
type SessionSource interface {
	RecentSessions(limit int) ([]replay.Session, error)
	DeleteSession(id string) error
}

// SessionsKeyMap defines keybindings for the session browser.
type SessionsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Verify key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k SessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Verify, k.Delete, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k SessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Verify, k.Delete, k.Quit},
	}
}

// DefaultSessionsKeyMap returns the default keybindings.
func DefaultSessionsKeyMap() SessionsKeyMap {
	return SessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Verify: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "replay"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SessionsModel browses recorded sessions and replays the selected one.
type SessionsModel struct {
	source   SessionSource
	sessions []replay.Session
	table    table.Model
	help     help.Model
	keys     SessionsKeyMap
	status   string
	width    int
	height   int
	quitting bool
}

// NewSessionsModel creates a browser over source.
func NewSessionsModel(source SessionSource, width, height int) SessionsModel {
	m := SessionsModel{
		source: source,
		keys:   DefaultSessionsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *SessionsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 36},
		{Title: "Config", Width: 8},
		{Title: "Actions", Width: 8},
		{Title: "Ticks", Width: 8},
		{Title: "Date", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *SessionsModel) load() {
	sessions, err := m.source.RecentSessions(maxSessions)
	if err != nil {
		m.status = "Cannot load sessions: " + err.Error()
		sessions = nil
	}
	m.sessions = sessions
	m.updateTableRows()
}

func (m *SessionsModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = table.Row{
			s.ID,
			shortHash(s.ConfigHash),
			fmt.Sprintf("%d", len(s.Actions)),
			fmt.Sprintf("%d", s.TotalTicks),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m SessionsModel) selected() (replay.Session, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return replay.Session{}, false
	}
	return m.sessions[i], true
}

// Init initializes the browser.
func (m SessionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Verify):
			if s, ok := m.selected(); ok {
				m.status = verifyStatus(s)
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if s, ok := m.selected(); ok {
				if err := m.source.DeleteSession(s.ID); err != nil {
					m.status = "Delete failed: " + err.Error()
				} else {
					m.status = "Deleted " + s.ID
				}
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// shortHash abbreviates a config fingerprint for display.
func shortHash(h uint64) string {
	if h == 0 {
		return "-"
	}
	return fmt.Sprintf("%016x", h)[:8]
}

// verifyStatus replays s and describes the outcome.
func verifyStatus(s replay.Session) string {
	st, err := replay.Verify(s)
	switch {
	case errors.Is(err, replay.ErrDiverged):
		return "Diverged: " + err.Error()
	case err != nil:
		return "Replay failed: " + err.Error()
	}
	return fmt.Sprintf("Verified: %s, score %s after %d ticks", st.Phase, scene.FormatScore(st.Score), s.TotalTicks)
}

// View renders the browser.
func (m SessionsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(fmt.Sprintf("RECORDED SESSIONS (%d)", len(m.sessions))))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No sessions recorded yet.\nPlay a game to record one!")))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(" " + m.status + "\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Status returns the last status line.
func (m SessionsModel) Status() string {
	return m.status
}

// RunSessions runs the session browser.
func RunSessions(source SessionSource, width, height int) error {
	p := tea.NewProgram(NewSessionsModel(source, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
