package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelver/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and stage health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, status)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Running: %s (pid %d)\n", yesNo(status.Running), status.PID)
				fmt.Fprintf(out, "Inbox:   %s\n", status.InboxDir)
				fmt.Fprintf(out, "Workers: %d\n", status.Workers)
				fmt.Fprintf(out, "Records: %d total\n\n", status.Analytics.Total)

				rows := make([][]string, 0, len(status.StageHealth))
				for _, health := range status.StageHealth {
					rows = append(rows, []string{health.Name, yesNo(health.Ready), health.Detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Stage", "Ready", "Detail"}, rows))
				return nil
			})
		},
	}
}

func newAnalyticsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show per-status record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				snapshot, err := client.Analytics()
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, snapshot)
				}
				rows := make([][]string, 0, len(statusOrder))
				for _, status := range statusOrder {
					rows = append(rows, []string{status, strconv.Itoa(snapshot.ByStatus[status])})
				}
				rows = append(rows, []string{"total", strconv.Itoa(snapshot.Total)})
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Status", "Count"}, rows))
				return nil
			})
		},
	}
}

var statusOrder = []string{"queued", "processing", "completed", "error", "bypassed"}
