package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/me/schedq/pkg/model"
)

// Run drives the dispatch loop until ctx is cancelled or Stop is called.
// A dispatch error means a scheduling invariant broke; the loop halts and
// surfaces the error rather than continue on corrupt state.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("dispatcher started",
		"quantum", e.cfg.Quantum,
		"priority_range", fmt.Sprintf("[%d, %d]", e.cfg.MinPriority, e.cfg.MaxPriority),
		"tick_interval", e.cfg.TickInterval.String(),
	)
	defer close(e.doneCh)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("dispatcher stopping (context cancelled)")
			return ctx.Err()
		case <-e.stopCh:
			e.logger.Info("dispatcher stopping (stop called)")
			return nil
		default:
		}

		worked, err := e.dispatchOne(ctx)
		if err != nil {
			e.logger.Error("dispatch halted on invariant violation", "error", err)
			return err
		}
		if worked {
			continue
		}

		// Idle: the only voluntary suspension point. A submit wakes the
		// loop early; the poll interval bounds the wait otherwise.
		select {
		case <-ctx.Done():
			e.logger.Info("dispatcher stopping (context cancelled)")
			return ctx.Err()
		case <-e.stopCh:
			e.logger.Info("dispatcher stopping (stop called)")
			return nil
		case <-e.wakeCh:
		case <-time.After(e.cfg.PollInterval):
		}
	}
}

// Stop shuts the dispatcher down and waits for the current iteration to
// finish. Call at most once, after Run has been started.
func (e *Engine) Stop() error {
	close(e.stopCh)
	<-e.doneCh
	return nil
}

// Tick runs a single scheduling decision synchronously. It reports
// whether a task was dispatched. Used for testing.
func (e *Engine) Tick(ctx context.Context) (bool, error) {
	return e.dispatchOne(ctx)
}

// dispatchOne takes the head of the highest non-empty priority level,
// runs it for one quantum (or to completion), and routes it back:
// requeued at its level's tail, completed, or dropped if cancelled
// mid-quantum.
func (e *Engine) dispatchOne(ctx context.Context) (bool, error) {
	e.mu.Lock()
	t := e.queues.dequeueNext()
	if t == nil {
		e.mu.Unlock()
		return false, nil
	}
	if !t.State.CanTransitionTo(model.TaskStateRunning) {
		e.mu.Unlock()
		return false, fmt.Errorf("dequeued task %s in state %s", t.ID, t.State)
	}

	now := e.clock.Now()
	t.AccumulatedWait += now - t.ReadySince
	if t.FirstRunTime == nil {
		first := now
		t.FirstRunTime = &first
	}
	t.State = model.TaskStateRunning
	e.running = t

	slice := e.cfg.Quantum
	if t.RemainingTime < slice {
		slice = t.RemainingTime
	}
	dispatched := t.View()
	e.mu.Unlock()

	e.emit(Event{Kind: EventDispatch, Tick: now, Task: dispatched, Time: time.Now().UTC()})
	e.logger.Debug("dispatch", "task_id", t.ID, "tick", now, "slice", slice)

	// Simulated execution. The lock is released here so reads, cancels,
	// and priority updates stay fast; shutdown aborts the sleep but the
	// slice is still charged so accounting stays consistent.
	if e.cfg.TickInterval > 0 {
		select {
		case <-time.After(time.Duration(slice) * e.cfg.TickInterval):
		case <-ctx.Done():
		case <-e.stopCh:
		}
	}

	e.mu.Lock()
	end := e.clock.Advance(slice)
	t.RemainingTime -= slice
	e.running = nil

	var ev Event
	switch {
	case t.State == model.TaskStateCancelled:
		// Cancelled while running: keep the quantum's accounting, skip
		// the requeue. The cancel itself already emitted its event.
		ev = Event{Kind: EventPreempt, Tick: end, RanTicks: slice, Task: t.View(), Time: time.Now().UTC()}
	case t.RemainingTime == 0:
		t.State = model.TaskStateCompleted
		done := end
		t.CompletionTime = &done
		ev = Event{Kind: EventCompleted, Tick: end, RanTicks: slice, Task: t.View(), Time: time.Now().UTC()}
	default:
		t.State = model.TaskStateReady
		t.ReadySince = end
		if err := e.queues.enqueue(t); err != nil {
			e.mu.Unlock()
			return false, err
		}
		ev = Event{Kind: EventPreempt, Tick: end, RanTicks: slice, Task: t.View(), Time: time.Now().UTC()}
	}
	e.mu.Unlock()

	e.emit(ev)
	if ev.Kind == EventCompleted {
		e.logger.Info("task completed",
			"task_id", t.ID, "tick", end, "turnaround", end-t.ArrivalTime)
	}
	return true, nil
}
