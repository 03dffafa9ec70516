package model

import "testing"

func TestTaskState_IsTerminal(t *testing.T) {
	tests := []struct {
		state TaskState
		want  bool
	}{
		{TaskStatePending, false},
		{TaskStateReady, false},
		{TaskStateRunning, false},
		{TaskStateCompleted, true},
		{TaskStateCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from TaskState
		to   TaskState
		want bool
	}{
		{TaskStatePending, TaskStateReady, true},
		{TaskStatePending, TaskStateCancelled, true},
		{TaskStatePending, TaskStateRunning, false},
		{TaskStateReady, TaskStateRunning, true},
		{TaskStateReady, TaskStateCancelled, true},
		{TaskStateReady, TaskStateCompleted, false},
		{TaskStateRunning, TaskStateReady, true},
		{TaskStateRunning, TaskStateCompleted, true},
		{TaskStateRunning, TaskStateCancelled, true},
		{TaskStateCompleted, TaskStateReady, false},
		{TaskStateCompleted, TaskStateCancelled, false},
		{TaskStateCancelled, TaskStateReady, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskState_IsValid(t *testing.T) {
	if !TaskStateReady.IsValid() {
		t.Error("READY reported invalid")
	}
	if TaskState("SLEEPING").IsValid() {
		t.Error("unknown state reported valid")
	}
}
