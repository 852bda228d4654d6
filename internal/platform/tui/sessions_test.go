package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/replay"
	"github.com/vovakirdan/gapflight/internal/sim"
)

type fakeSource struct {
	sessions []replay.Session
	err      error
}

func (f *fakeSource) RecentSessions(int) ([]replay.Session, error) {
	return f.sessions, f.err
}

func (f *fakeSource) DeleteSession(id string) error {
	for i, s := range f.sessions {
		if s.ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

// recordedSession plays a short run and returns its recording.
func recordedSession(t *testing.T, id string) replay.Session {
	t.Helper()
	cfg := config.Default()
	g, err := sim.New(cfg, 5)
	if err != nil {
		t.Fatalf("sim.New() failed: %v", err)
	}
	rec := replay.NewRecorder(cfg, 5)

	rec.Action(g)
	tk, ok := g.PrimaryAction()
	for range 30 {
		if !ok {
			break
		}
		tk, ok = g.Tick(tk)
	}

	s := rec.Finish(g)
	s.ID = id
	s.CreatedAt = time.Now()
	return s
}

func updateSessions(t *testing.T, m SessionsModel, msg tea.Msg) SessionsModel {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(SessionsModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm
}

func TestSessionsEmpty(t *testing.T) {
	m := NewSessionsModel(&fakeSource{}, 80, 24)

	if !strings.Contains(m.View(), "No sessions recorded yet") {
		t.Error("empty browser should say so")
	}
}

func TestSessionsLoadError(t *testing.T) {
	m := NewSessionsModel(&fakeSource{err: errors.New("disk gone")}, 80, 24)

	if !strings.Contains(m.Status(), "disk gone") {
		t.Errorf("status = %q, expected load error", m.Status())
	}
}

func TestSessionsVerifySelected(t *testing.T) {
	src := &fakeSource{sessions: []replay.Session{recordedSession(t, "good")}}
	m := NewSessionsModel(src, 100, 30)

	m = updateSessions(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.HasPrefix(m.Status(), "Verified") {
		t.Errorf("status = %q, expected Verified", m.Status())
	}
}

func TestSessionsShowConfigFingerprint(t *testing.T) {
	s := recordedSession(t, "hashed")
	m := NewSessionsModel(&fakeSource{sessions: []replay.Session{s}}, 120, 30)

	want := fmt.Sprintf("%016x", s.ConfigHash)[:8]
	if !strings.Contains(m.View(), want) {
		t.Errorf("view should show config fingerprint %s", want)
	}
}

func TestSessionsVerifyChangedConfig(t *testing.T) {
	s := recordedSession(t, "retuned")
	s.Config.Physics.JumpImpulse--
	m := NewSessionsModel(&fakeSource{sessions: []replay.Session{s}}, 100, 30)

	m = updateSessions(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(m.Status(), "config fingerprint") {
		t.Errorf("status = %q, expected config fingerprint mismatch", m.Status())
	}
}

func TestSessionsVerifyDiverged(t *testing.T) {
	s := recordedSession(t, "bad")
	s.Checksum++
	m := NewSessionsModel(&fakeSource{sessions: []replay.Session{s}}, 100, 30)

	m = updateSessions(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.HasPrefix(m.Status(), "Diverged") {
		t.Errorf("status = %q, expected Diverged", m.Status())
	}
}

func TestSessionsDelete(t *testing.T) {
	src := &fakeSource{sessions: []replay.Session{
		recordedSession(t, "one"),
		recordedSession(t, "two"),
	}}
	m := NewSessionsModel(src, 100, 30)

	m = updateSessions(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	if len(src.sessions) != 1 || src.sessions[0].ID != "two" {
		t.Fatalf("expected first session deleted, left %v", len(src.sessions))
	}
	if m.Status() != "Deleted one" {
		t.Errorf("status = %q", m.Status())
	}
	if !strings.Contains(m.View(), "RECORDED SESSIONS (1)") {
		t.Error("title should reflect the reloaded list")
	}
}

func TestSessionsQuit(t *testing.T) {
	m := NewSessionsModel(&fakeSource{}, 80, 24)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("quit should return tea.Quit")
	}
	if next.(SessionsModel).View() != "" {
		t.Error("View() should be empty after quit")
	}
}
