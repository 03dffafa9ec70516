package scheduler

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/me/schedq/pkg/model"
)

// Config holds scheduler tuning knobs.
type Config struct {
	// Quantum is the logical time slice granted per dispatch turn.
	Quantum int64

	// MinPriority and MaxPriority bound the accepted priority range.
	// Smaller value means higher precedence.
	MinPriority int
	MaxPriority int

	// TickInterval is the wall-clock duration of one logical tick. Zero
	// runs the simulation as fast as possible (used in tests).
	TickInterval time.Duration

	// PollInterval bounds how long the dispatcher sleeps when idle
	// before re-checking the queues; a wake signal cuts it short.
	PollInterval time.Duration

	// EventBuffer sizes the transition event channel.
	EventBuffer int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Quantum:      2,
		MinPriority:  1,
		MaxPriority:  10,
		TickInterval: 0,
		PollInterval: 100 * time.Millisecond,
		EventBuffer:  256,
	}
}

// SubmitRequest carries the fields needed to create a task.
type SubmitRequest struct {
	Name        string
	Description string
	Priority    int
	BurstTime   int64
}

// UpdateRequest carries optional task updates; nil fields are untouched.
// Burst time is immutable and has no update field.
type UpdateRequest struct {
	Name        *string
	Description *string
	Priority    *int
}

// Engine owns all mutable scheduler state: the task registry, the ready
// queues, the running slot, and the logical clock. One mutex guards the
// lot; the dispatch loop and every external operation acquire it before
// touching anything. The engine is created at process start and torn
// down at process stop.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	clock  *Clock

	mu      sync.Mutex
	tasks   map[string]*model.Task
	queues  *readyQueues
	running *model.Task

	events  chan Event
	dropped atomic.Int64

	wakeCh chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates an Engine with empty queues and a zeroed clock.
func New(cfg Config, logger *slog.Logger) *Engine {
	if cfg.Quantum <= 0 {
		cfg.Quantum = 2
	}
	if cfg.MaxPriority < cfg.MinPriority {
		cfg.MinPriority, cfg.MaxPriority = 1, 10
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}

	return &Engine{
		cfg:    cfg,
		logger: logger.With("component", "scheduler"),
		clock:  &Clock{},
		tasks:  make(map[string]*model.Task),
		queues: newReadyQueues(),
		events: make(chan Event, cfg.EventBuffer),
		wakeCh: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Events exposes the transition event stream. The channel is never
// closed; consumers stop via their own context.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Submit validates the request, registers the task, and enqueues it at
// its priority level. Validation happens before any state mutation.
func (e *Engine) Submit(req SubmitRequest) (model.TaskView, error) {
	if err := e.checkPriority(req.Priority); err != nil {
		return model.TaskView{}, err
	}
	if req.BurstTime <= 0 {
		return model.TaskView{}, &model.InvalidBurstError{Burst: req.BurstTime}
	}

	e.mu.Lock()
	now := e.clock.Now()
	t := &model.Task{
		ID:            "task_" + uuid.New().String(),
		Name:          req.Name,
		Description:   req.Description,
		State:         model.TaskStatePending,
		Priority:      req.Priority,
		BurstTime:     req.BurstTime,
		RemainingTime: req.BurstTime,
		ArrivalTime:   now,
		CreatedAt:     time.Now().UTC(),
	}

	// Admission promotes PENDING straight to READY.
	t.State = model.TaskStateReady
	t.ReadySince = now
	if err := e.queues.enqueue(t); err != nil {
		e.mu.Unlock()
		return model.TaskView{}, err
	}
	e.tasks[t.ID] = t
	view := t.View()
	e.mu.Unlock()

	e.wake()
	e.emit(Event{Kind: EventSubmitted, Tick: now, Task: view, Time: time.Now().UTC()})
	e.logger.Info("task submitted",
		"task_id", t.ID, "priority", t.Priority, "burst", t.BurstTime)
	return view, nil
}

// Get returns the view of a single task.
func (e *Engine) Get(id string) (model.TaskView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.tasks[id]
	if !ok {
		return model.TaskView{}, &model.TaskNotFoundError{ID: id}
	}
	return t.View(), nil
}

// List returns task views matching opts, ordered by arrival then id, and
// the total match count before pagination.
func (e *Engine) List(opts model.ListOptions) ([]model.TaskView, int) {
	opts.Clamp()

	e.mu.Lock()
	matched := make([]model.TaskView, 0, len(e.tasks))
	for _, t := range e.tasks {
		if opts.State != "" && t.State != opts.State {
			continue
		}
		if opts.Priority != nil && t.Priority != *opts.Priority {
			continue
		}
		matched = append(matched, t.View())
	}
	e.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ArrivalTime != matched[j].ArrivalTime {
			return matched[i].ArrivalTime < matched[j].ArrivalTime
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if opts.Offset >= total {
		return []model.TaskView{}, total
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	return matched[opts.Offset:end], total
}

// UpdateTask applies the non-nil fields of req. Priority changes are
// recorded immediately but the task keeps its current queue slot; the
// ready queue picks the new level up at the task's next enqueue.
// Priority cannot change while the task is RUNNING.
func (e *Engine) UpdateTask(id string, req UpdateRequest) (model.TaskView, error) {
	if req.Priority != nil {
		if err := e.checkPriority(*req.Priority); err != nil {
			return model.TaskView{}, err
		}
	}

	e.mu.Lock()
	t, ok := e.tasks[id]
	if !ok {
		e.mu.Unlock()
		return model.TaskView{}, &model.TaskNotFoundError{ID: id}
	}
	if t.State.IsTerminal() {
		e.mu.Unlock()
		return model.TaskView{}, &model.InvalidStateError{ID: id, State: t.State, Op: "update"}
	}
	if req.Priority != nil && t.State == model.TaskStateRunning {
		e.mu.Unlock()
		return model.TaskView{}, &model.InvalidStateError{ID: id, State: t.State, Op: "update priority of"}
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	view := t.View()
	now := e.clock.Now()
	e.mu.Unlock()

	e.emit(Event{Kind: EventUpdated, Tick: now, Task: view, Time: time.Now().UTC()})
	e.logger.Info("task updated", "task_id", id, "priority", view.Priority)
	return view, nil
}

// Cancel marks the task CANCELLED and removes it from its queue slot.
// Cancelling a task that is already COMPLETED or CANCELLED is an
// idempotent no-op: the current view comes back and nothing mutates.
// A RUNNING task is cancelled cooperatively - the dispatcher finishes
// the in-flight quantum's accounting and skips the requeue.
func (e *Engine) Cancel(id string) (model.TaskView, error) {
	e.mu.Lock()
	t, ok := e.tasks[id]
	if !ok {
		e.mu.Unlock()
		return model.TaskView{}, &model.TaskNotFoundError{ID: id}
	}
	if t.State.IsTerminal() {
		view := t.View()
		e.mu.Unlock()
		return view, nil
	}

	if t.State == model.TaskStateReady {
		e.queues.remove(t.ID)
	}
	t.State = model.TaskStateCancelled
	view := t.View()
	now := e.clock.Now()
	e.mu.Unlock()

	e.emit(Event{Kind: EventCancelled, Tick: now, Task: view, Time: time.Now().UTC()})
	e.logger.Info("task cancelled", "task_id", id)
	return view, nil
}

// Delete removes a terminal task's record from the registry. Live tasks
// must be cancelled first so the dispatch invariants stay intact.
func (e *Engine) Delete(id string) error {
	e.mu.Lock()
	t, ok := e.tasks[id]
	if !ok {
		e.mu.Unlock()
		return &model.TaskNotFoundError{ID: id}
	}
	if !t.State.IsTerminal() {
		e.mu.Unlock()
		return &model.InvalidStateError{ID: id, State: t.State, Op: "delete"}
	}
	view := t.View()
	delete(e.tasks, id)
	now := e.clock.Now()
	e.mu.Unlock()

	e.emit(Event{Kind: EventDeleted, Tick: now, Task: view, Time: time.Now().UTC()})
	e.logger.Info("task deleted", "task_id", id)
	return nil
}

// Stats recomputes aggregate metrics from the registry on demand.
func (e *Engine) Stats() model.SchedulerStats {
	e.mu.Lock()
	views := make([]model.TaskView, 0, len(e.tasks))
	for _, t := range e.tasks {
		views = append(views, t.View())
	}
	now := e.clock.Now()
	e.mu.Unlock()

	return model.ComputeStats(views, now)
}

func (e *Engine) checkPriority(p int) error {
	if p < e.cfg.MinPriority || p > e.cfg.MaxPriority {
		return &model.InvalidPriorityError{
			Priority: p,
			Min:      e.cfg.MinPriority,
			Max:      e.cfg.MaxPriority,
		}
	}
	return nil
}

// wake nudges an idle dispatcher without blocking the caller.
func (e *Engine) wake() {
	select {
	case e.wakeCh <- struct{}{}:
	default:
	}
}

// emit publishes a transition event without blocking the scheduler. When
// the buffer is full the event is dropped and counted; the archive is an
// observer, not part of the dispatch critical path.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		n := e.dropped.Add(1)
		e.logger.Warn("event buffer full, dropping event",
			"kind", ev.Kind, "task_id", ev.Task.ID, "dropped_total", n)
	}
}

// DroppedEvents reports how many transition events were discarded
// because the event buffer was full.
func (e *Engine) DroppedEvents() int64 {
	return e.dropped.Load()
}
