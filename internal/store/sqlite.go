package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/schedq/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// returns a Store. Use ":memory:" for an in-memory database (useful in
// tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL mode keeps reads fast while the recorder writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

func (s *SQLiteStore) SaveTask(ctx context.Context, v model.TaskView) error {
	s.logger.Debug("sql", "op", "upsert", "table", "tasks", "id", v.ID)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, name, description, state, priority, burst_time,
		 remaining_time, progress, arrival_time, first_run_time, completion_time,
		 waiting_time, response_time, turnaround_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   state = excluded.state,
		   priority = excluded.priority,
		   remaining_time = excluded.remaining_time,
		   progress = excluded.progress,
		   first_run_time = excluded.first_run_time,
		   completion_time = excluded.completion_time,
		   waiting_time = excluded.waiting_time,
		   response_time = excluded.response_time,
		   turnaround_time = excluded.turnaround_time,
		   updated_at = excluded.updated_at`,
		v.ID, v.Name, v.Description, string(v.State), v.Priority, v.BurstTime,
		v.RemainingTime, v.Progress, v.ArrivalTime, v.FirstRunTime, v.CompletionTime,
		v.WaitingTime, v.ResponseTime, v.TurnaroundTime,
		v.CreatedAt.Format(time.RFC3339Nano), now,
	)
	return err
}

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.TaskView, error) {
	s.logger.Debug("sql", "op", "select", "table", "tasks", "id", id)
	return s.scanTask(s.db.QueryRowContext(ctx,
		`SELECT id, name, description, state, priority, burst_time,
		 remaining_time, progress, arrival_time, first_run_time, completion_time,
		 waiting_time, response_time, turnaround_time, created_at
		 FROM tasks WHERE id = ?`, id))
}

func (s *SQLiteStore) ListTasks(ctx context.Context, opts model.ListOptions) ([]model.TaskView, int, error) {
	opts.Clamp()
	s.logger.Debug("sql", "op", "list", "table", "tasks",
		"state", string(opts.State), "limit", opts.Limit, "offset", opts.Offset)

	where := " WHERE 1=1"
	args := []any{}
	if opts.State != "" {
		where += " AND state = ?"
		args = append(args, string(opts.State))
	}
	if opts.Priority != nil {
		where += " AND priority = ?"
		args = append(args, *opts.Priority)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, state, priority, burst_time,
		 remaining_time, progress, arrival_time, first_run_time, completion_time,
		 waiting_time, response_time, turnaround_time, created_at
		 FROM tasks`+where+` ORDER BY arrival_time, created_at, id LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var views []model.TaskView
	for rows.Next() {
		v, err := s.scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, rows.Err()
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "tasks", "id", id)
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// scanner abstracts over *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanTask(row scanner) (*model.TaskView, error) {
	var v model.TaskView
	var state, createdAt string

	err := row.Scan(
		&v.ID, &v.Name, &v.Description, &state, &v.Priority, &v.BurstTime,
		&v.RemainingTime, &v.Progress, &v.ArrivalTime, &v.FirstRunTime,
		&v.CompletionTime, &v.WaitingTime, &v.ResponseTime, &v.TurnaroundTime,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	v.State = model.TaskState(state)
	v.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &v, nil
}
