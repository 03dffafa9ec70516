package store

import (
	"context"
	"log/slog"

	"github.com/me/schedq/internal/scheduler"
)

// Recorder consumes the engine's transition event stream and mirrors
// the latest snapshot of each task into the archive. It runs outside
// the scheduler lock: a slow disk never stalls a dispatch decision.
type Recorder struct {
	store  Store
	events <-chan scheduler.Event
	logger *slog.Logger
	doneCh chan struct{}
}

// NewRecorder creates a Recorder over the given event stream.
func NewRecorder(st Store, events <-chan scheduler.Event, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  st,
		events: events,
		logger: logger.With("component", "recorder"),
		doneCh: make(chan struct{}),
	}
}

// Run consumes events until ctx is cancelled or the stream closes.
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.doneCh)
	r.logger.Debug("recorder started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("recorder stopping")
			return
		case ev, ok := <-r.events:
			if !ok {
				return
			}
			r.apply(ctx, ev)
		}
	}
}

// Done is closed once Run has returned.
func (r *Recorder) Done() <-chan struct{} {
	return r.doneCh
}

func (r *Recorder) apply(ctx context.Context, ev scheduler.Event) {
	var err error
	switch ev.Kind {
	case scheduler.EventDeleted:
		err = r.store.DeleteTask(ctx, ev.Task.ID)
	default:
		err = r.store.SaveTask(ctx, ev.Task)
	}
	if err != nil {
		// Archive writes are best-effort; the registry stays the
		// source of truth for live tasks.
		r.logger.Error("archive write failed",
			"kind", ev.Kind, "task_id", ev.Task.ID, "error", err)
	}
}
