package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/lifeofword/internal/observability"
	"github.com/jonathan/lifeofword/internal/schedule"
)

var scheduleJSON bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule [week]",
	Short: "List the 12-week reading program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "Print the schedule as JSON")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	weeks := schedule.Weeks()
	if len(args) == 1 {
		week, ok := schedule.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown week %q (expected 1-%d)", args[0], len(weeks))
		}
		weeks = []schedule.Week{week}
	}

	if scheduleJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(weeks)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSchedule(weeks)
	return nil
}
