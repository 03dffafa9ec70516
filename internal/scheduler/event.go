package scheduler

import (
	"time"

	"github.com/me/schedq/pkg/model"
)

// EventKind identifies a scheduler transition.
type EventKind string

const (
	EventSubmitted EventKind = "SUBMITTED"
	EventDispatch  EventKind = "DISPATCH"
	EventPreempt   EventKind = "PREEMPT"
	EventCompleted EventKind = "COMPLETED"
	EventCancelled EventKind = "CANCELLED"
	EventUpdated   EventKind = "UPDATED"
	EventDeleted   EventKind = "DELETED"
)

// Event is emitted on every task transition. Consumers (the archive
// recorder, log streamers) receive a snapshot of the task taken at the
// moment of the transition, so reading it never races the engine.
type Event struct {
	Kind     EventKind      `json:"kind"`
	Tick     int64          `json:"tick"`
	RanTicks int64          `json:"ran_ticks,omitempty"`
	Task     model.TaskView `json:"task"`
	Time     time.Time      `json:"time"`
}
