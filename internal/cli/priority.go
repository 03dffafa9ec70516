package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/schedq/pkg/model"
)

func newPriorityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "priority <task_id> <level>",
		Short: "Change a task's priority",
		Long: "Change a task's priority level. The new level takes effect the next " +
			"time the task is enqueued; it does not move the task within its current queue slot.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("priority must be an integer, got %q", args[1])
			}

			resp, err := client.Patch("/api/v1/tasks/"+id, map[string]any{
				"priority": level,
			})
			if err != nil {
				return fmt.Errorf("update priority: %w", err)
			}

			var view model.TaskView
			if err := json.Unmarshal(resp.Data, &view); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Task %s priority set to %d (state %s)\n", id, view.Priority, view.State)
			return nil
		},
	}
}
