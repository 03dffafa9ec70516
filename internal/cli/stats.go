package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/schedq/pkg/model"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate scheduler metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/stats")
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}

			var stats model.SchedulerStats
			if err := json.Unmarshal(resp.Data, &stats); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Scheduler at tick %d", stats.ClockTicks)
			if stats.Idle {
				fmt.Printf(" (idle)")
			}
			fmt.Println()
			fmt.Printf("  Tasks:      %d total", stats.TotalTasks)
			if stats.ReadyTasks > 0 {
				fmt.Printf(", %d ready", stats.ReadyTasks)
			}
			if stats.RunningTasks > 0 {
				fmt.Printf(", %d running", stats.RunningTasks)
			}
			if stats.CompletedTasks > 0 {
				fmt.Printf(", %d completed", stats.CompletedTasks)
			}
			if stats.CancelledTasks > 0 {
				fmt.Printf(", %d cancelled", stats.CancelledTasks)
			}
			fmt.Println()
			if stats.CompletedTasks > 0 {
				fmt.Printf("  Avg wait:       %.2f ticks\n", stats.AvgWaitingTime)
				fmt.Printf("  Avg turnaround: %.2f ticks\n", stats.AvgTurnaroundTime)
				fmt.Printf("  Avg response:   %.2f ticks\n", stats.AvgResponseTime)
				fmt.Printf("  Throughput:     %.3f tasks/tick\n", stats.Throughput)
			}
			return nil
		},
	}
}
