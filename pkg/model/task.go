package model

import "time"

// Task is the canonical scheduler record for one unit of simulated work.
// All time fields except CreatedAt are logical clock ticks: the clock only
// advances while a quantum executes, never while the scheduler idles.
type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       TaskState `json:"state"`

	// Priority orders dispatch: smaller value wins. It may change while
	// the task is queued; the ready queue applies the new value at the
	// task's next enqueue, not retroactively.
	Priority int `json:"priority"`

	// BurstTime is the total logical execution the task needs. Immutable
	// after submission. RemainingTime counts down to zero at completion.
	BurstTime     int64 `json:"burst_time"`
	RemainingTime int64 `json:"remaining_time"`

	ArrivalTime    int64  `json:"arrival_time"`
	FirstRunTime   *int64 `json:"first_run_time,omitempty"`
	CompletionTime *int64 `json:"completion_time,omitempty"`

	// AccumulatedWait is the total ticks spent READY across all
	// preemptions, updated on each READY -> RUNNING transition.
	AccumulatedWait int64 `json:"accumulated_wait"`

	// ReadySince is the tick of the most recent transition into READY.
	// Only meaningful while State == READY.
	ReadySince int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Progress returns completion as a 0-100 percentage.
func (t *Task) Progress() int {
	if t.BurstTime <= 0 {
		return 0
	}
	p := int((t.BurstTime - t.RemainingTime) * 100 / t.BurstTime)
	if p > 100 {
		p = 100
	}
	return p
}

// TaskView is the read-only projection of a Task handed to callers,
// extending the raw record with derived metrics.
type TaskView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	State          TaskState `json:"state"`
	Priority       int       `json:"priority"`
	BurstTime      int64     `json:"burst_time"`
	RemainingTime  int64     `json:"remaining_time"`
	Progress       int       `json:"progress"`
	ArrivalTime    int64     `json:"arrival_time"`
	FirstRunTime   *int64    `json:"first_run_time,omitempty"`
	CompletionTime *int64    `json:"completion_time,omitempty"`
	WaitingTime    int64     `json:"waiting_time"`
	ResponseTime   *int64    `json:"response_time,omitempty"`
	TurnaroundTime *int64    `json:"turnaround_time,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// View builds the caller-facing projection of the task.
//
// ResponseTime is set once the task has run at least once; TurnaroundTime
// only once completed. For completed tasks the invariant
// WaitingTime + BurstTime == TurnaroundTime holds.
func (t *Task) View() TaskView {
	v := TaskView{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		State:          t.State,
		Priority:       t.Priority,
		BurstTime:      t.BurstTime,
		RemainingTime:  t.RemainingTime,
		Progress:       t.Progress(),
		ArrivalTime:    t.ArrivalTime,
		FirstRunTime:   t.FirstRunTime,
		CompletionTime: t.CompletionTime,
		WaitingTime:    t.AccumulatedWait,
		CreatedAt:      t.CreatedAt,
	}
	if t.FirstRunTime != nil {
		rt := *t.FirstRunTime - t.ArrivalTime
		v.ResponseTime = &rt
	}
	if t.CompletionTime != nil {
		tt := *t.CompletionTime - t.ArrivalTime
		v.TurnaroundTime = &tt
	}
	return v
}
