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
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List and inspect stored papers",
}

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers, newest first",
	RunE:  runPapersList,
}

var papersShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one paper with its current alpha card",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

func init() {
	papersListCmd.Flags().String("source", "", "filter by source tag")
	papersListCmd.Flags().Int("limit", 50, "maximum rows")
	papersListCmd.Flags().Bool("json", false, "output JSON")

	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersShowCmd)
	rootCmd.AddCommand(papersCmd)
}

func runPapersList(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	sourceTag, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	papers, err := st.ListPapers(context.Background(), sourceTag, limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println("No papers stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-16s  %-56s  %s\n", "ID", "Source", "Title", "Published")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, p := range papers {
		title := p.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-16s  %-56s  %s\n",
			p.ID, p.Source, title, p.PublishedAt.Format("2006-01-02"))
	}
	return nil
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
		return fmt.Errorf("invalid paper id %q", args[0])
	}

	ctx := context.Background()
	paper, err := st.GetPaper(ctx, id)
	if err != nil {
		return err
	}

	out := struct {
		Paper *types.Paper     `json:"paper"`
		Card  *types.AlphaCard `json:"alpha_card,omitempty"`
	}{Paper: paper}

	if card, err := st.CurrentCard(ctx, id); err == nil {
		out.Card = card
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
