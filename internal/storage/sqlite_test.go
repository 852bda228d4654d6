package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/replay"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession(id string, createdAt time.Time) replay.Session {
	return replay.Session{
		ID:         id,
		Seed:       42,
		Config:     config.Default(),
		ConfigHash: 0x0123456789abcdef,
		Actions:    []int{0, 18, 40, 77},
		TotalTicks: 160,
		Checksum:   0xfeedface12345678,
		CreatedAt:  createdAt,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 3, 1, 12, 30, 0, 500, time.UTC)
	want := testSession("a", created)

	if err := store.SaveSession(want); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	got, err := store.Session("a")
	if err != nil {
		t.Fatalf("Session() failed: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Session() = %+v, expected %+v", got, want)
	}
}

func TestStoreCustomConfigSurvives(t *testing.T) {
	store := openTestStore(t)
	sess := testSession("custom", time.Now())
	sess.Config.Physics.Gravity = 0.75
	sess.Config.Obstacles.SpawnInterval = 2 * time.Second

	if err := store.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	got, err := store.Session("custom")
	if err != nil {
		t.Fatalf("Session() failed: %v", err)
	}

	if got.Config != sess.Config {
		t.Errorf("config = %+v, expected %+v", got.Config, sess.Config)
	}
}

func TestStoreFingerprintsUnhashedConfig(t *testing.T) {
	store := openTestStore(t)
	sess := testSession("unhashed", time.Now())
	sess.ConfigHash = 0

	if err := store.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	got, err := store.Session("unhashed")
	if err != nil {
		t.Fatalf("Session() failed: %v", err)
	}

	want, err := replay.Fingerprint(sess.Config)
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}
	if got.ConfigHash != want {
		t.Errorf("ConfigHash = %016x, expected %016x", got.ConfigHash, want)
	}
}

func TestStoreDuplicateID(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveSession(testSession("dup", time.Now())); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.SaveSession(testSession("dup", time.Now())); err == nil {
		t.Error("saving a duplicate id should fail")
	}
}

func TestStoreSessionNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Session("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Session() error = %v, expected ErrNotFound", err)
	}
}

func TestStoreRecentSessions(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		if err := store.SaveSession(testSession(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	sessions, err := store.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}

	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "third" || sessions[1].ID != "second" {
		t.Errorf("Expected newest first, got %s, %s", sessions[0].ID, sessions[1].ID)
	}
}

func TestStoreRecentSessionsDefaultLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Now()

	for i := range 25 {
		sess := testSession(string(rune('a'+i)), base.Add(time.Duration(i)*time.Second))
		if err := store.SaveSession(sess); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	sessions, err := store.RecentSessions(0)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 20 {
		t.Errorf("Expected 20 sessions, got %d", len(sessions))
	}
}

func TestStoreDeleteSession(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveSession(testSession("gone", time.Now())); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.DeleteSession("gone"); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}

	if _, err := store.Session("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted session still readable: %v", err)
	}
	if err := store.DeleteSession("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, expected ErrNotFound", err)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
