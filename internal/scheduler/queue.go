package scheduler

import (
	"fmt"

	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/me/schedq/pkg/model"
)

// readyQueues groups READY tasks by priority level. Levels live in a tree
// map keyed by priority (smaller value = higher precedence) so dispatch
// finds the first non-empty level in O(log n). Each level is a FIFO:
// tasks keep arrival order on first enqueue and rotate to the tail after
// a quantum expires.
type readyQueues struct {
	levels *treemap.Map // int -> *doublylinkedlist.List of *model.Task

	// member records which level each queued task sits in. A priority
	// update between enqueue and dequeue changes the task's field but
	// not its slot, so removal must use the enqueue-time level.
	member map[string]int
}

func newReadyQueues() *readyQueues {
	return &readyQueues{
		levels: treemap.NewWithIntComparator(),
		member: make(map[string]int),
	}
}

// enqueue appends the task to the tail of its current priority level.
// A task occupies at most one queue slot; a second enqueue is an
// invariant violation, not a recoverable condition.
func (q *readyQueues) enqueue(t *model.Task) error {
	if lvl, ok := q.member[t.ID]; ok {
		return fmt.Errorf("task %s already queued at level %d", t.ID, lvl)
	}

	var level *doublylinkedlist.List
	if v, ok := q.levels.Get(t.Priority); ok {
		level = v.(*doublylinkedlist.List)
	} else {
		level = doublylinkedlist.New()
		q.levels.Put(t.Priority, level)
	}
	level.Add(t)
	q.member[t.ID] = t.Priority
	return nil
}

// dequeueNext removes and returns the head of the highest-priority
// non-empty level, or nil when every level is empty. Empty levels are
// pruned so Min always lands on a level with work.
func (q *readyQueues) dequeueNext() *model.Task {
	k, v := q.levels.Min()
	if k == nil {
		return nil
	}
	level := v.(*doublylinkedlist.List)

	head, _ := level.Get(0)
	level.Remove(0)
	if level.Empty() {
		q.levels.Remove(k)
	}

	t := head.(*model.Task)
	delete(q.member, t.ID)
	return t
}

// remove takes the task out of whatever level holds it. Removing a task
// that is not queued is a no-op, which is exactly what cancellation needs.
func (q *readyQueues) remove(id string) bool {
	lvl, ok := q.member[id]
	if !ok {
		return false
	}

	v, _ := q.levels.Get(lvl)
	level := v.(*doublylinkedlist.List)
	it := level.Iterator()
	for it.Next() {
		if it.Value().(*model.Task).ID == id {
			level.Remove(it.Index())
			break
		}
	}
	if level.Empty() {
		q.levels.Remove(lvl)
	}
	delete(q.member, id)
	return true
}

// size returns the total number of queued tasks across all levels.
func (q *readyQueues) size() int {
	return len(q.member)
}
