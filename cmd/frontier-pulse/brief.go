// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/frontier-pulse/internal/store"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Show and edit weekly research briefs",
}

var briefShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the latest brief version",
	Long: `Show prints the newest version of the brief for the given week, or the
most recently written brief across all weeks when no week is given.`,
	RunE: runBriefShow,
}

var briefUpdateCmd = &cobra.Command{
	Use:   "update [week]",
	Short: "Append a manually edited brief version",
	Long: `Update reads replacement markdown from --file (or stdin with "-") and
appends it as a new version of the week's brief. Prior versions are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runBriefUpdate,
}

func init() {
	briefShowCmd.Flags().String("week", "", "week key, e.g. 2026-W35 (default: latest)")
	briefUpdateCmd.Flags().String("file", "", "markdown file to load (\"-\" for stdin)")
	briefUpdateCmd.Flags().String("editor", "user", "recorded editor name")

	briefCmd.AddCommand(briefShowCmd)
	briefCmd.AddCommand(briefUpdateCmd)
	rootCmd.AddCommand(briefCmd)
}

func runBriefShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	week, _ := cmd.Flags().GetString("week")
	version, err := st.LatestBriefVersion(context.Background(), week)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Brief %s v%d (editor %s, %s)\n",
		version.WeekKey, version.VersionNumber, version.Editor,
		version.CreatedAt.Format(time.RFC3339))
	fmt.Fprintln(os.Stdout, version.Markdown)
	return nil
}

func runBriefUpdate(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		return fmt.Errorf("provide --file with the replacement markdown (\"-\" for stdin)")
	}

	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("reading markdown: %w", err)
	}

	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	editor, _ := cmd.Flags().GetString("editor")
	version, err := st.UpdateBrief(context.Background(), args[0], editor, string(data), time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Brief %s updated to v%d\n", version.WeekKey, version.VersionNumber)
	return nil
}
