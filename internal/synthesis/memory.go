// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/frontier-pulse/internal/embed"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

const (
	// MemoryLookbackWeeks bounds how far the long-horizon derivation reads
	// back into prior briefs.
	MemoryLookbackWeeks = 6

	memoryTitleCap      = 180
	memoryProvenanceCap = 1500
)

// LongHorizonInsight summarizes hypothesis and bottleneck trends across the
// given weeks. With no tracked weeks there is no signal yet.
func LongHorizonInsight(currentWeek string, weeks []string, hyps []types.Hypothesis, clusters []types.Cluster) string {
	if len(weeks) == 0 {
		return "No historical signal available yet."
	}

	mechanisms := make([]string, 0, len(hyps))
	for _, h := range hyps {
		mechanisms = append(mechanisms, h.Type)
	}
	bottlenecks := make([]string, 0, len(clusters))
	for _, c := range clusters {
		bottlenecks = append(bottlenecks, c.DominantBottleneck)
	}

	return fmt.Sprintf(
		"Across the last %d tracked weeks (up to %s), the dominant hypothesis types are: %s. Most persistent bottlenecks are: %s.",
		len(weeks), currentWeek, topCounts(mechanisms, 3), topCounts(bottlenecks, 3))
}

// topCounts renders the n most frequent values as "value(count)" pairs.
// Ties keep first-encountered order.
func topCounts(values []string, n int) string {
	counts := map[string]int{}
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return "none"
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}

	parts := make([]string, len(order))
	for i, v := range order {
		parts[i] = fmt.Sprintf("%s(%d)", v, counts[v])
	}
	return strings.Join(parts, ", ")
}

// BuildMemoryEntries derives the durable memory upserts for a completed
// week: one per hypothesis, one nugget per alpha card, and one trend entry.
// Keys embed the week so re-running a week overwrites rather than appends.
func BuildMemoryEntries(weekKey string, hyps []types.Hypothesis, cards []types.AlphaCard, insight string, now time.Time) []types.MemoryEntry {
	var entries []types.MemoryEntry

	for _, h := range hyps {
		entries = append(entries, types.MemoryEntry{
			MemoryKey:  fmt.Sprintf("%s:hypothesis:%d", weekKey, h.ID),
			MemoryType: "hypothesis",
			Title:      capRunes(h.Text, memoryTitleCap),
			Summary:    h.Text,
			SourceWeek: weekKey,
			Provenance: "derived from linked alpha cards with provenance snippets",
			Embedding:  embed.Text(h.Text),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	for _, card := range cards {
		summary := fmt.Sprintf("%s\nMechanism=%s; Bottleneck=%s; Novelty=%s.",
			card.ShortAlphaSummary, card.MechanismType, card.BottleneckAttacked, card.NoveltyBucket)
		entries = append(entries, types.MemoryEntry{
			MemoryKey:  fmt.Sprintf("%s:alpha:%d:%d", weekKey, card.PaperID, card.VersionNumber),
			MemoryType: "alpha_nugget",
			Title:      capRunes(summary, memoryTitleCap),
			Summary:    summary,
			SourceWeek: weekKey,
			Provenance: capRunes(card.ProvenanceSnippets, memoryProvenanceCap),
			Embedding:  embed.Text(summary),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	entries = append(entries, types.MemoryEntry{
		MemoryKey:  weekKey + ":trend:long_horizon",
		MemoryType: "weekly_synthesis",
		Title:      "Long-horizon synthesis " + weekKey,
		Summary:    insight,
		SourceWeek: weekKey,
		Provenance: "computed from prior hypotheses and clusters",
		Embedding:  embed.Text(insight),
		CreatedAt:  now,
		UpdatedAt:  now,
	})

	return entries
}

func capRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
