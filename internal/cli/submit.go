package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/schedq/pkg/model"
)

func newSubmitCmd() *cobra.Command {
	var (
		flagPriority    int
		flagBurst       int64
		flagDescription string
	)

	cmd := &cobra.Command{
		Use:   "submit <name>",
		Short: "Submit a task to the scheduler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/tasks", map[string]any{
				"name":        args[0],
				"description": flagDescription,
				"priority":    flagPriority,
				"burst_time":  flagBurst,
			})
			if err != nil {
				return fmt.Errorf("submit task: %w", err)
			}

			var view model.TaskView
			if err := json.Unmarshal(resp.Data, &view); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Task %s submitted\n", view.ID)
			fmt.Printf("  Name:     %s\n", view.Name)
			fmt.Printf("  State:    %s\n", view.State)
			fmt.Printf("  Priority: %d\n", view.Priority)
			fmt.Printf("  Burst:    %d ticks\n", view.BurstTime)
			fmt.Printf("  Arrival:  tick %d\n", view.ArrivalTime)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flagPriority, "priority", "p", 5, "Priority level (smaller runs first)")
	cmd.Flags().Int64VarP(&flagBurst, "burst", "b", 1, "Burst time in logical ticks")
	cmd.Flags().StringVarP(&flagDescription, "description", "d", "", "Task description")

	return cmd
}
