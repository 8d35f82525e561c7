package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type LogRow struct {
	ID          int64   `json:"id"`
	Action      string  `json:"action"`
	Entity      string  `json:"entity"`
	EntityID    *string `json:"entityId"`
	Details     string  `json:"details"`
	PerformedBy string  `json:"performedBy"`
	Timestamp   string  `json:"timestamp"`
}

var logsDays int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Read the audit trail",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/system-logs"
		if logsDays > 0 {
			path = fmt.Sprintf("%s?days=%d", path, logsDays)
		}
		var rows []LogRow
		if err := NewClient(apiURL).Get(cmd.Context(), path, &rows); err != nil {
			return err
		}
		printResult(rows)
		return nil
	},
}

func init() {
	logsListCmd.Flags().IntVarP(&logsDays, "days", "d", 0, "How many days back to look (server default when 0)")
	logsCmd.AddCommand(logsListCmd)
	rootCmd.AddCommand(logsCmd)
}
