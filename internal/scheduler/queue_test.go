package scheduler

import (
	"testing"
	"time"

	"github.com/me/schedq/pkg/model"
)

func newTask(id string, priority int) *model.Task {
	return &model.Task{
		ID:        id,
		State:     model.TaskStateReady,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
}

func TestReadyQueues_PriorityOrder(t *testing.T) {
	q := newReadyQueues()
	low := newTask("task_low", 9)
	mid := newTask("task_mid", 5)
	high := newTask("task_high", 1)

	for _, task := range []*model.Task{low, mid, high} {
		if err := q.enqueue(task); err != nil {
			t.Fatalf("enqueue(%s): %v", task.ID, err)
		}
	}

	for _, want := range []string{"task_high", "task_mid", "task_low"} {
		got := q.dequeueNext()
		if got == nil || got.ID != want {
			t.Fatalf("dequeueNext = %v, want %s", got, want)
		}
	}
	if got := q.dequeueNext(); got != nil {
		t.Fatalf("dequeueNext on empty = %v, want nil", got)
	}
}

func TestReadyQueues_FIFOWithinLevel(t *testing.T) {
	q := newReadyQueues()
	for _, id := range []string{"task_1", "task_2", "task_3"} {
		if err := q.enqueue(newTask(id, 4)); err != nil {
			t.Fatalf("enqueue(%s): %v", id, err)
		}
	}

	// Rotation: head goes back to the tail of the same level.
	first := q.dequeueNext()
	if first.ID != "task_1" {
		t.Fatalf("head = %s, want task_1", first.ID)
	}
	if err := q.enqueue(first); err != nil {
		t.Fatalf("requeue: %v", err)
	}

	var order []string
	for task := q.dequeueNext(); task != nil; task = q.dequeueNext() {
		order = append(order, task.ID)
	}
	want := []string{"task_2", "task_3", "task_1"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestReadyQueues_DoubleEnqueueFails(t *testing.T) {
	q := newReadyQueues()
	task := newTask("task_dup", 3)
	if err := q.enqueue(task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.enqueue(task); err == nil {
		t.Fatal("second enqueue succeeded, want invariant error")
	}
}

func TestReadyQueues_RemoveIsIdempotent(t *testing.T) {
	q := newReadyQueues()
	if err := q.enqueue(newTask("task_x", 2)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if !q.remove("task_x") {
		t.Error("remove of queued task = false, want true")
	}
	if q.remove("task_x") {
		t.Error("second remove = true, want false (no-op)")
	}
	if q.remove("task_never_queued") {
		t.Error("remove of unknown task = true, want false")
	}
	if q.size() != 0 {
		t.Errorf("size = %d, want 0", q.size())
	}
}

// A priority update between enqueue and dequeue changes the task field
// but not the slot; removal still finds the enqueue-time level.
func TestReadyQueues_RemoveAfterPriorityChange(t *testing.T) {
	q := newReadyQueues()
	task := newTask("task_moved", 2)
	if err := q.enqueue(task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task.Priority = 8
	if !q.remove(task.ID) {
		t.Fatal("remove after priority change = false, want true")
	}
	if q.size() != 0 {
		t.Errorf("size = %d, want 0", q.size())
	}
}

func TestClock(t *testing.T) {
	var c Clock
	if c.Now() != 0 {
		t.Fatalf("Now = %d, want 0", c.Now())
	}
	if got := c.Advance(3); got != 3 {
		t.Errorf("Advance(3) = %d, want 3", got)
	}
	if got := c.Advance(2); got != 5 {
		t.Errorf("Advance(2) = %d, want 5", got)
	}
	if c.Now() != 5 {
		t.Errorf("Now = %d, want 5", c.Now())
	}
}
