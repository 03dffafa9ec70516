package model

// TaskState represents the lifecycle state of a Task.
type TaskState string

const (
	TaskStatePending   TaskState = "PENDING"
	TaskStateReady     TaskState = "READY"
	TaskStateRunning   TaskState = "RUNNING"
	TaskStateCompleted TaskState = "COMPLETED"
	TaskStateCancelled TaskState = "CANCELLED"
)

// String returns the string representation of the task state.
func (s TaskState) String() string {
	return string(s)
}

// IsTerminal returns true if the task is in a final state.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCancelled:
		return true
	}
	return false
}

// IsValid returns true if s is one of the known task states.
func (s TaskState) IsValid() bool {
	switch s {
	case TaskStatePending, TaskStateReady, TaskStateRunning,
		TaskStateCompleted, TaskStateCancelled:
		return true
	}
	return false
}

// ValidTaskTransitions defines the allowed state transitions for Tasks.
// A task leaves RUNNING back to READY when its quantum expires with work
// remaining; cancellation is legal from any non-terminal state.
var ValidTaskTransitions = map[TaskState][]TaskState{
	TaskStatePending: {TaskStateReady, TaskStateCancelled},
	TaskStateReady:   {TaskStateRunning, TaskStateCancelled},
	TaskStateRunning: {TaskStateReady, TaskStateCompleted, TaskStateCancelled},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	for _, allowed := range ValidTaskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
