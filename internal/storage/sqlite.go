// Package storage provides SQLite-based persistence for recorded sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gapflight/internal/config"
	"github.com/vovakirdan/gapflight/internal/replay"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("storage: session not found")

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			config_hash TEXT NOT NULL,
			config_yaml TEXT NOT NULL,
			actions TEXT NOT NULL,
			total_ticks INTEGER NOT NULL,
			checksum TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession stores a recorded session. Saving an existing id fails.
func (s *Store) SaveSession(sess replay.Session) error {
	cfgYAML, err := config.Marshal(sess.Config)
	if err != nil {
		return fmt.Errorf("storage: cannot encode config: %w", err)
	}
	hash := sess.ConfigHash
	if hash == 0 {
		if hash, err = replay.Fingerprint(sess.Config); err != nil {
			return fmt.Errorf("storage: cannot fingerprint config: %w", err)
		}
	}
	actions, err := json.Marshal(sess.Actions)
	if err != nil {
		return fmt.Errorf("storage: cannot encode actions: %w", err)
	}

	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions
		 (id, seed, config_hash, config_yaml, actions, total_ticks, checksum, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.Seed,
		formatHash(hash),
		string(cfgYAML),
		string(actions),
		sess.TotalTicks,
		formatHash(sess.Checksum),
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save session: %w", err)
	}
	return nil
}

// Session retrieves a session by id.
func (s *Store) Session(id string) (replay.Session, error) {
	row := s.db.QueryRow(
		`SELECT id, seed, config_hash, config_yaml, actions, total_ticks, checksum, created_at
		 FROM sessions
		 WHERE id = ?`,
		id,
	)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return replay.Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return replay.Session{}, err
	}
	return sess, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]replay.Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, config_hash, config_yaml, actions, total_ticks, checksum, created_at
		 FROM sessions
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []replay.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// DeleteSession removes a session by id.
func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (replay.Session, error) {
	var (
		sess      replay.Session
		cfgHash   string
		cfgYAML   string
		actions   string
		checksum  string
		createdAt any
	)

	err := row.Scan(&sess.ID, &sess.Seed, &cfgHash, &cfgYAML, &actions, &sess.TotalTicks, &checksum, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, err
	}
	if err != nil {
		return sess, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	if sess.ConfigHash, err = strconv.ParseUint(cfgHash, 16, 64); err != nil {
		return sess, fmt.Errorf("storage: session %s: bad config hash %q: %w", sess.ID, cfgHash, err)
	}
	if sess.Config, err = config.Parse([]byte(cfgYAML)); err != nil {
		return sess, fmt.Errorf("storage: session %s: %w", sess.ID, err)
	}
	if err := json.Unmarshal([]byte(actions), &sess.Actions); err != nil {
		return sess, fmt.Errorf("storage: session %s: cannot decode actions: %w", sess.ID, err)
	}
	if sess.Checksum, err = strconv.ParseUint(checksum, 16, 64); err != nil {
		return sess, fmt.Errorf("storage: session %s: bad checksum %q: %w", sess.ID, checksum, err)
	}
	sess.CreatedAt = parseTime(createdAt)

	return sess, nil
}

// parseTime handles both time.Time and string values returned by the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v.UTC()
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
