package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/schedq/pkg/model"
)

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task_id>",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			resp, err := client.Put("/api/v1/tasks/"+id+"/cancel", nil)
			if err != nil {
				return fmt.Errorf("cancel task: %w", err)
			}

			var view model.TaskView
			if err := json.Unmarshal(resp.Data, &view); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Task %s: %s\n", id, view.State)
			fmt.Printf("  Progress at stop: %d%% (%d of %d ticks)\n",
				view.Progress, view.BurstTime-view.RemainingTime, view.BurstTime)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task_id>",
		Short: "Delete a completed or cancelled task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if _, err := client.Delete("/api/v1/tasks/" + id); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}

			fmt.Printf("Task %s deleted\n", id)
			return nil
		},
	}
}
