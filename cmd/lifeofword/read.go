package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/lifeofword/internal/observability"
	"github.com/jonathan/lifeofword/internal/plan"
	"github.com/jonathan/lifeofword/internal/reader"
	"github.com/jonathan/lifeofword/internal/types"
)

var (
	readJSON    bool
	readSegment int
)

var readCmd = &cobra.Command{
	Use:   "read <reference>",
	Short: "Read a reference with both translations side by side",
	Long:  "Fetches every segment of the reference through the passage proxy and prints each verse with its local text. Segments the proxy cannot serve are printed from the local corpus with a placeholder translation.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func init() {
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Print the merged segments as JSON")
	readCmd.Flags().IntVar(&readSegment, "segment", -1, "Read only this segment (0-based)")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer startTracing(ctx, logger)()

	index, err := loadIndex(ctx, cfg, logger)
	if err != nil {
		return err
	}

	p, err := plan.Build(args[0], index)
	if err != nil {
		return err
	}

	fetcher, closeFetcher, err := newFetcher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	assembler := reader.NewAssembler(fetcher, index, logger)

	var results []*types.SegmentResult
	if readSegment >= 0 {
		result, err := assembler.Assemble(ctx, p, readSegment)
		if err != nil {
			return err
		}
		results = append(results, result)
	} else {
		results, err = assembler.ReadAll(ctx, p, reader.ReadOptions{Concurrency: cfg.Concurrency})
		if err != nil {
			return err
		}
	}

	if readJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode segments: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, result := range results {
		printer.PrintSegment(result)
	}
	return nil
}
