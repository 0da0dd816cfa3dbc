// Package sqlite provides SQLite-based persistent storage for Stride.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so every query method works
// inside and outside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store exposes all coach queries over a connection or transaction.
type Store struct {
	q dbtx
}

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	*Store
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/coach.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "coach.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer; one connection also serializes the
	// read-modify-write check-in path per process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{Store: &Store{q: db}, db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// WithTx runs fn inside a single transaction. The whole check-in path —
// gap fill, record insert, streak fields, commitment and reward flags —
// commits or rolls back as one unit.
func (d *DB) WithTx(fn func(*Store) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&Store{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS account_metadata (
			user_email         TEXT PRIMARY KEY,
			first_checkin_date TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS momentum_records (
			user_email              TEXT NOT NULL,
			date                    TEXT NOT NULL,
			account_age_days        INTEGER NOT NULL,
			behavior_grades         TEXT NOT NULL DEFAULT '[]',
			daily_score             INTEGER NOT NULL,
			momentum_score          INTEGER NOT NULL,
			momentum_delta          INTEGER NOT NULL DEFAULT 0,
			momentum_trend          TEXT NOT NULL DEFAULT 'stable',
			trend_message           TEXT NOT NULL DEFAULT '',
			primary_habit_key       TEXT NOT NULL DEFAULT '',
			primary_done            BOOLEAN NOT NULL DEFAULT 0,
			checkin_type            TEXT NOT NULL,
			missed                  BOOLEAN NOT NULL DEFAULT 0,
			current_streak          INTEGER NOT NULL DEFAULT 0,
			lifetime_streak         INTEGER NOT NULL DEFAULT 0,
			streak_savers           INTEGER NOT NULL DEFAULT 0,
			total_real_checkins     INTEGER NOT NULL DEFAULT 0,
			exercise_completed      BOOLEAN NOT NULL DEFAULT 0,
			exercise_target_minutes INTEGER NOT NULL DEFAULT 0,
			celebrated              BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (user_email, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_real
			ON momentum_records(user_email, checkin_type, date)`,

		`CREATE TABLE IF NOT EXISTS current_focus (
			user_email         TEXT PRIMARY KEY,
			habit_key          TEXT NOT NULL,
			label              TEXT NOT NULL DEFAULT '',
			kind               TEXT NOT NULL,
			level              INTEGER NOT NULL DEFAULT 1,
			target             INTEGER NOT NULL DEFAULT 0,
			started_at         TEXT NOT NULL,
			last_level_up_at   TEXT NOT NULL DEFAULT '',
			consecutive_days   INTEGER NOT NULL DEFAULT 0,
			last_proven_target INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS commitments (
			user_email             TEXT PRIMARY KEY,
			habit_offered          TEXT NOT NULL DEFAULT '',
			habit_key              TEXT NOT NULL DEFAULT '',
			state                  TEXT NOT NULL DEFAULT 'none',
			accepted               BOOLEAN NOT NULL DEFAULT 0,
			accepted_at            TEXT NOT NULL DEFAULT '',
			expires_at             TEXT NOT NULL DEFAULT '',
			alternative_offered    TEXT NOT NULL DEFAULT '',
			alternative_accepted   BOOLEAN NOT NULL DEFAULT 0,
			decline_reason         TEXT NOT NULL DEFAULT '',
			prompt_last_shown      TEXT NOT NULL DEFAULT '',
			prompt_times_offered   INTEGER NOT NULL DEFAULT 0,
			prompt_times_accepted  INTEGER NOT NULL DEFAULT 0,
			prompt_times_declined  INTEGER NOT NULL DEFAULT 0,
			prompt_decline_reasons TEXT NOT NULL DEFAULT '[]',
			celebrated             BOOLEAN NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS habit_stack (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_email  TEXT NOT NULL,
			habit_key   TEXT NOT NULL,
			label       TEXT NOT NULL DEFAULT '',
			kind        TEXT NOT NULL,
			level       INTEGER NOT NULL DEFAULT 1,
			target      INTEGER NOT NULL DEFAULT 0,
			archived_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_habit_stack_user ON habit_stack(user_email)`,

		`CREATE TABLE IF NOT EXISTS toasts (
			id         TEXT PRIMARY KEY,
			user_email TEXT NOT NULL,
			message    TEXT NOT NULL,
			type       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_toasts_pending ON toasts(user_email, shown)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
