package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the task archive.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		state           TEXT NOT NULL DEFAULT 'PENDING',
		priority        INTEGER NOT NULL,
		burst_time      INTEGER NOT NULL,
		remaining_time  INTEGER NOT NULL,
		progress        INTEGER NOT NULL DEFAULT 0,
		arrival_time    INTEGER NOT NULL,
		first_run_time  INTEGER,
		completion_time INTEGER,
		waiting_time    INTEGER NOT NULL DEFAULT 0,
		response_time   INTEGER,
		turnaround_time INTEGER,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_state ON tasks(state)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
