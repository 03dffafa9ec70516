package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/schedq/pkg/model"
)

func newListCmd() *cobra.Command {
	var (
		flagState    string
		flagPriority int
		flagLimit    int
		flagOffset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if flagState != "" {
				q.Set("state", flagState)
			}
			if cmd.Flags().Changed("priority") {
				q.Set("priority", strconv.Itoa(flagPriority))
			}
			q.Set("limit", strconv.Itoa(flagLimit))
			q.Set("offset", strconv.Itoa(flagOffset))

			resp, err := client.Get("/api/v1/tasks?" + q.Encode())
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			var views []model.TaskView
			if err := json.Unmarshal(resp.Data, &views); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(views) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}

			fmt.Printf("%-42s  %-20s  %-10s  %-4s  %-5s  %s\n", "ID", "NAME", "STATE", "PRI", "PROG", "CREATED")
			fmt.Printf("%-42s  %-20s  %-10s  %-4s  %-5s  %s\n", "----", "----", "-----", "---", "----", "-------")
			for _, v := range views {
				name := v.Name
				if len(name) > 20 {
					name = name[:17] + "..."
				}
				fmt.Printf("%-42s  %-20s  %-10s  %-4d  %3d%%   %s\n",
					v.ID, name, v.State, v.Priority, v.Progress, humanize.Time(v.CreatedAt))
			}

			if resp.Pagination != nil && resp.Pagination.HasMore {
				fmt.Printf("\n(%d of %d shown)\n", len(views), resp.Pagination.Total)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flagState, "state", "", "Filter by state (PENDING, READY, RUNNING, COMPLETED, CANCELLED)")
	cmd.Flags().IntVar(&flagPriority, "priority", 0, "Filter by priority level")
	cmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum tasks to show")
	cmd.Flags().IntVar(&flagOffset, "offset", 0, "Offset into the result set")

	return cmd
}
