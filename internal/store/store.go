package store

import (
	"context"

	"github.com/me/schedq/pkg/model"
)

// Store defines the persistence layer for the task archive: the latest
// snapshot of every task the scheduler has seen, kept across restarts.
// The archive is an observer of the engine, never part of the dispatch
// critical section.
type Store interface {
	// SaveTask inserts or replaces the snapshot for a task id.
	SaveTask(ctx context.Context, v model.TaskView) error

	// GetTask returns the stored snapshot, or nil when the id is unknown.
	GetTask(ctx context.Context, id string) (*model.TaskView, error)

	// ListTasks returns snapshots matching opts plus the total match
	// count before pagination.
	ListTasks(ctx context.Context, opts model.ListOptions) ([]model.TaskView, int, error)

	// DeleteTask removes a snapshot; unknown ids are a no-op.
	DeleteTask(ctx context.Context, id string) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
