package model

// SchedulerStats is the aggregate view over every task the scheduler has
// seen, recomputed from the registry on demand rather than cached.
type SchedulerStats struct {
	TotalTasks     int `json:"total_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	ReadyTasks     int `json:"ready_tasks"`
	RunningTasks   int `json:"running_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CancelledTasks int `json:"cancelled_tasks"`

	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
	AvgResponseTime   float64 `json:"avg_response_time"`

	// Throughput is completed tasks per elapsed logical tick.
	Throughput float64 `json:"throughput"`

	// ClockTicks is the current logical clock reading.
	ClockTicks int64 `json:"clock_ticks"`
	Idle       bool  `json:"idle"`
}

// ComputeStats calculates SchedulerStats from task views at the given
// logical clock reading. Averages cover completed tasks only.
func ComputeStats(tasks []TaskView, clockTicks int64) SchedulerStats {
	s := SchedulerStats{TotalTasks: len(tasks), ClockTicks: clockTicks}

	var sumWait, sumTurnaround, sumResponse int64
	for _, t := range tasks {
		switch t.State {
		case TaskStatePending:
			s.PendingTasks++
		case TaskStateReady:
			s.ReadyTasks++
		case TaskStateRunning:
			s.RunningTasks++
		case TaskStateCompleted:
			s.CompletedTasks++
			sumWait += t.WaitingTime
			if t.TurnaroundTime != nil {
				sumTurnaround += *t.TurnaroundTime
			}
			if t.ResponseTime != nil {
				sumResponse += *t.ResponseTime
			}
		case TaskStateCancelled:
			s.CancelledTasks++
		}
	}

	if s.CompletedTasks > 0 {
		n := float64(s.CompletedTasks)
		s.AvgWaitingTime = float64(sumWait) / n
		s.AvgTurnaroundTime = float64(sumTurnaround) / n
		s.AvgResponseTime = float64(sumResponse) / n
	}
	if clockTicks > 0 {
		s.Throughput = float64(s.CompletedTasks) / float64(clockTicks)
	}
	s.Idle = s.ReadyTasks == 0 && s.RunningTasks == 0

	return s
}
