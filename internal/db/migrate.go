package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		label      TEXT NOT NULL DEFAULT '',
		sources    TEXT NOT NULL DEFAULT '',
		start_year INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS snapshot_milestones (
		snapshot_id  TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		milestone_id TEXT NOT NULL,
		position     INTEGER NOT NULL,
		vendor       TEXT NOT NULL DEFAULT '',
		name         TEXT NOT NULL DEFAULT '',
		deadline     TEXT NOT NULL DEFAULT '',
		due_offset   INTEGER,
		PRIMARY KEY (snapshot_id, milestone_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at)`,

	`CREATE TABLE IF NOT EXISTS snapshot_dependencies (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		from_id     TEXT NOT NULL,
		to_id       TEXT NOT NULL,
		label       TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, from_id, to_id)
	)`,
}

// Migrate applies every schema statement. Statements are idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
