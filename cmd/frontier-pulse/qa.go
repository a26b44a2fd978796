// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/frontier-pulse/internal/export"
	"github.com/pdiddy/frontier-pulse/internal/store"
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Print the editorial QA checklist for the latest brief",
	RunE:  runQA,
}

func init() {
	rootCmd.AddCommand(qaCmd)
}

func runQA(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	markdown := ""
	version, err := st.LatestBriefVersion(context.Background(), "")
	switch {
	case err == nil:
		markdown = version.Markdown
	case errors.Is(err, store.ErrNotFound):
		// No brief yet; the checklist still renders, all content items fail.
	default:
		return err
	}

	for _, item := range export.Checklist(markdown) {
		mark := " "
		if item.Passed {
			mark = "x"
		}
		required := ""
		if item.Required {
			required = " (required)"
		}
		fmt.Fprintf(os.Stdout, "[%s] %s%s\n", mark, item.Title, required)
	}
	return nil
}
