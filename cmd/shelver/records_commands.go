package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shelver/internal/ipc"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect and manage pipeline records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	recordsCmd.AddCommand(newRecordsListCommand(ctx))
	recordsCmd.AddCommand(newRecordsShowCommand(ctx))
	recordsCmd.AddCommand(newRecordsClearCommand(ctx))
	return recordsCmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RecordList(statusFilters)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				if len(resp.Records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No records.")
					return nil
				}
				rows := make([][]string, 0, len(resp.Records))
				for _, record := range resp.Records {
					detail := record.Classification
					if record.Bypassed {
						detail = "bypassed: " + record.BypassReason
					} else if record.ErrorMessage != "" {
						detail = record.ErrorMessage
					}
					rows = append(rows, []string{
						shortID(record.ID),
						filepath.Base(record.CurrentPath),
						record.Status,
						detail,
						record.UpdatedAt.Local().Format(time.RFC3339),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "File", "Status", "Detail", "Updated"}, rows))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by status (queued, processing, completed, error, bypassed)")
	return cmd
}

func newRecordsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <record-id>",
		Short: "Show one record with its stage log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RecordDescribe(args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				record := resp.Record
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Record:         %s\n", record.ID)
				fmt.Fprintf(out, "Status:         %s\n", record.Status)
				fmt.Fprintf(out, "Source path:    %s\n", record.SourcePath)
				fmt.Fprintf(out, "Current path:   %s\n", record.CurrentPath)
				if record.Classification != "" {
					fmt.Fprintf(out, "Classification: %s\n", record.Classification)
				}
				if len(record.Tags) > 0 {
					fmt.Fprintf(out, "Tags:           %s\n", strings.Join(record.Tags, ", "))
				}
				if record.NewName != "" {
					fmt.Fprintf(out, "New name:       %s\n", record.NewName)
				}
				if record.NewPath != "" {
					fmt.Fprintf(out, "New path:       %s\n", record.NewPath)
				}
				if record.Bypassed {
					fmt.Fprintf(out, "Bypassed:       %s\n", record.BypassReason)
				}
				if record.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:          %s\n", record.ErrorMessage)
				}
				if len(record.Logs) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(record.Logs))
				for _, entry := range record.Logs {
					outcome := entry.Label
					if !entry.Completed {
						outcome = "failed: " + entry.Error
					}
					rows = append(rows, []string{
						entry.Action,
						outcome,
						entry.Timestamp.Local().Format(time.RFC3339),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Stage", "Outcome", "At"}, rows))
				return nil
			})
		},
	}
}

func newRecordsClearCommand(ctx *commandContext) *cobra.Command {
	var completedOnly bool
	var terminalOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove records (all by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := "all"
			switch {
			case completedOnly && terminalOnly:
				return fmt.Errorf("--completed and --terminal are mutually exclusive")
			case completedOnly:
				scope = "completed"
			case terminalOnly:
				scope = "terminal"
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Clear(scope)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s)\n", resp.Removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Only remove completed records")
	cmd.Flags().BoolVar(&terminalOnly, "terminal", false, "Remove completed, errored, and bypassed records")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
