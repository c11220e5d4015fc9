package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/lifeofword/internal/observability"
	"github.com/jonathan/lifeofword/internal/plan"
)

var planJSON bool

var planCmd = &cobra.Command{
	Use:   "plan <reference>",
	Short: "Show how a reference is split into segments",
	Long:  "Parses a reference such as \"Genesis 1-10\" against the local corpus and prints the segments a full reading will fetch.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plan as JSON")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	index, err := loadIndex(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	p, err := plan.Build(args[0], index)
	if err != nil {
		return err
	}

	if planJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintPlan(p)
	return nil
}
