package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	full_name     TEXT,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decision_fields (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL,
	variables        TEXT NOT NULL DEFAULT '{}',
	status           TEXT NOT NULL CHECK (status IN ('draft', 'analyzing', 'completed', 'archived')),
	intuition_weight REAL NOT NULL DEFAULT 0.5,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL,
	FOREIGN KEY (user_id) REFERENCES profiles(id)
);

CREATE INDEX IF NOT EXISTS idx_fields_user ON decision_fields(user_id, created_at);

CREATE TABLE IF NOT EXISTS decision_outcomes (
	id                  TEXT PRIMARY KEY,
	decision_field_id   TEXT NOT NULL,
	label               TEXT NOT NULL,
	probability         REAL NOT NULL,
	impact_score        INTEGER NOT NULL,
	confidence_lower    REAL NOT NULL,
	confidence_upper    REAL NOT NULL,
	surprise_score      REAL NOT NULL,
	logic_reasoning     TEXT,
	intuitive_reasoning TEXT,
	quantum_reasoning   TEXT,
	created_at          TEXT NOT NULL,
	UNIQUE (decision_field_id, label),
	FOREIGN KEY (decision_field_id) REFERENCES decision_fields(id)
);

CREATE TABLE IF NOT EXISTS collapsed_decisions (
	id                  TEXT PRIMARY KEY,
	decision_field_id   TEXT NOT NULL UNIQUE,
	selected_outcome_id TEXT,
	synthesis           TEXT NOT NULL,
	data_weight         REAL NOT NULL,
	intuition_weight    REAL NOT NULL,
	collapsed_at        TEXT NOT NULL,
	FOREIGN KEY (decision_field_id) REFERENCES decision_fields(id),
	FOREIGN KEY (selected_outcome_id) REFERENCES decision_outcomes(id)
);

CREATE TABLE IF NOT EXISTS insight_journal (
	id                TEXT PRIMARY KEY,
	decision_field_id TEXT NOT NULL,
	user_id           TEXT NOT NULL,
	actual_outcome    TEXT,
	accuracy_score    REAL,
	notes             TEXT,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	FOREIGN KEY (decision_field_id) REFERENCES decision_fields(id),
	FOREIGN KEY (user_id) REFERENCES profiles(id)
);

CREATE TABLE IF NOT EXISTS field_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	field_id     TEXT NOT NULL,
	user_id      TEXT,
	event_type   TEXT NOT NULL,
	payload_json TEXT,
	reason       TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists profiles, fields, outcomes, collapses, and journal entries in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an already-migrated database handle.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region helpers
type rowScanner interface {
	Scan(dest ...any) error
}

// timeLayout is fixed width so that text ordering in SQL matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// #endregion helpers
