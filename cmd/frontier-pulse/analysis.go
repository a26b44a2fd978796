// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/frontier-pulse/internal/store"
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Inspect synthesized hypotheses, clusters, and memory",
}

var analysisHypothesesCmd = &cobra.Command{
	Use:   "hypotheses",
	Short: "List hypotheses with evidence counts",
	RunE:  runAnalysisHypotheses,
}

var analysisClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List clusters with member counts",
	RunE:  runAnalysisClusters,
}

var analysisMemoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "List long-horizon memory entries",
	RunE:  runAnalysisMemory,
}

func init() {
	for _, c := range []*cobra.Command{analysisHypothesesCmd, analysisClustersCmd, analysisMemoryCmd} {
		c.Flags().String("week", "", "filter by week key, e.g. 2026-W35")
		c.Flags().Bool("json", false, "output JSON")
	}
	analysisMemoryCmd.Flags().String("type", "", "filter by memory type")
	analysisMemoryCmd.Flags().Int("limit", 50, "maximum rows")

	analysisCmd.AddCommand(analysisHypothesesCmd)
	analysisCmd.AddCommand(analysisClustersCmd)
	analysisCmd.AddCommand(analysisMemoryCmd)
	rootCmd.AddCommand(analysisCmd)
}

func runAnalysisHypotheses(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	week, _ := cmd.Flags().GetString("week")
	summaries, err := st.ListHypotheses(context.Background(), week)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No hypotheses synthesized.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-8s  %-7s  %-10s  %s\n",
		"ID", "Week", "Strength", "Support", "Contradict", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, h := range summaries {
		text := h.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-10s  %-8.2f  %-7d  %-10d  %s\n",
			h.ID, h.WeekIntroduced, h.DisplayStrength, h.SupportCount, h.ContradictionCount, text)
	}
	return nil
}

func runAnalysisClusters(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	week, _ := cmd.Flags().GetString("week")
	clusters, err := st.ListClusters(context.Background(), week)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(clusters)
	}

	if len(clusters) == 0 {
		fmt.Println("No clusters generated.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-32s  %-6s  %s\n",
		"ID", "Week", "Name", "Papers", "Mechanisms")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, c := range clusters {
		fmt.Fprintf(os.Stdout, "%-6d  %-10s  %-32s  %-6d  %s\n",
			c.ID, c.WeekKey, c.Name, c.PaperCount, c.MechanismSummary)
	}
	return nil
}

func runAnalysisMemory(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	week, _ := cmd.Flags().GetString("week")
	memType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := st.ListMemory(context.Background(), week, memType, limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No memory entries.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-40s  %-16s  %-10s  %s\n", "Key", "Type", "Week", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, e := range entries {
		title := e.Title
		if len(title) > 44 {
			title = title[:41] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-40s  %-16s  %-10s  %s\n",
			e.MemoryKey, e.MemoryType, e.SourceWeek, title)
	}
	return nil
}
