package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/schedq/pkg/model"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <task_id>",
		Short: "Check the status of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			resp, err := client.Get("/api/v1/tasks/" + id)
			if err != nil {
				return fmt.Errorf("get task: %w", err)
			}

			var view model.TaskView
			if err := json.Unmarshal(resp.Data, &view); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Task: %s\n", view.ID)
			fmt.Printf("  Name:      %s\n", view.Name)
			if view.Description != "" {
				fmt.Printf("  About:     %s\n", view.Description)
			}
			fmt.Printf("  State:     %s\n", view.State)
			fmt.Printf("  Priority:  %d\n", view.Priority)
			fmt.Printf("  Progress:  %d%% (%d of %d ticks)\n",
				view.Progress, view.BurstTime-view.RemainingTime, view.BurstTime)
			fmt.Printf("  Arrival:   tick %d\n", view.ArrivalTime)
			fmt.Printf("  Waiting:   %d ticks\n", view.WaitingTime)
			if view.ResponseTime != nil {
				fmt.Printf("  Response:  %d ticks\n", *view.ResponseTime)
			}
			if view.TurnaroundTime != nil {
				fmt.Printf("  Turnaround: %d ticks\n", *view.TurnaroundTime)
			}
			fmt.Printf("  Created:   %s\n", humanize.Time(view.CreatedAt))
			return nil
		},
	}
}
