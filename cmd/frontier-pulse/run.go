// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/frontier-pulse/internal/alpha"
	"github.com/pdiddy/frontier-pulse/internal/pipeline"
	"github.com/pdiddy/frontier-pulse/internal/store"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the weekly synthesis pipeline",
	Long: `Run fetches the configured sources, deduplicates and stores new papers,
extracts alpha cards, synthesizes hypotheses and clusters, renders a new
brief version for the current ISO week, and upserts long-horizon memory.

Per-source failures are recorded in the run notes; the run itself only
fails on storage errors.`,
	RunE: runWeekly,
}

func init() {
	runCmd.Flags().Int("max-papers", 0, "cap ingested papers (default from config)")
	runCmd.Flags().StringSlice("sources", nil, "restrict the run to these source tags")
	runCmd.Flags().Bool("include-revised", false, "keep revised versions of seen papers eligible")

	rootCmd.AddCommand(runCmd)
}

func runWeekly(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	maxPapers, _ := cmd.Flags().GetInt("max-papers")
	sources, _ := cmd.Flags().GetStringSlice("sources")
	includeRevised, _ := cmd.Flags().GetBool("include-revised")

	extractor := alpha.NewExtractor(
		buildInference(cfg, nil), cfg.Inference.Model, cfg.Inference.Temperature, logger)
	p := pipeline.New(st, buildConnectors(cfg), extractor, cfg, logger)

	result, err := p.RunWeekly(context.Background(), types.RunRequest{
		MaxPapers:      maxPapers,
		Sources:        sources,
		IncludeRevised: includeRevised || cfg.Ingestion.IncludeRevisedPapers,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s %s\n", result.RunID, result.Status)
	fmt.Fprintf(os.Stdout, "  papers:      %d\n", result.Ingested)
	fmt.Fprintf(os.Stdout, "  alpha cards: %d\n", result.Cards)
	fmt.Fprintf(os.Stdout, "  hypotheses:  %d\n", result.Hypotheses)
	fmt.Fprintf(os.Stdout, "  clusters:    %d\n", result.Clusters)
	fmt.Fprintf(os.Stdout, "  brief:       v%d\n", result.BriefVersion)
	fmt.Fprintf(os.Stdout, "  notes:       %s\n", result.Notes)
	return nil
}
