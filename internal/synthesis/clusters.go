// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

var titleCaser = cases.Title(language.English)

// ClusterDraft pairs an unsaved cluster with its member paper ids.
type ClusterDraft struct {
	Cluster  types.Cluster
	PaperIDs []int64
}

// BuildClusters groups the week's cards by attacked bottleneck. Each cluster
// names the bottleneck and summarizes the distinct mechanisms inside it.
// Groups come out in sorted bottleneck order so reruns are deterministic.
func BuildClusters(cards []types.AlphaCard, weekKey string, now time.Time) []ClusterDraft {
	grouped := map[string][]types.AlphaCard{}
	for _, card := range cards {
		grouped[card.BottleneckAttacked] = append(grouped[card.BottleneckAttacked], card)
	}

	bottlenecks := make([]string, 0, len(grouped))
	for b := range grouped {
		bottlenecks = append(bottlenecks, b)
	}
	sort.Strings(bottlenecks)

	out := make([]ClusterDraft, 0, len(bottlenecks))
	for _, bottleneck := range bottlenecks {
		group := grouped[bottleneck]

		seen := map[string]bool{}
		var mechanisms []string
		for _, card := range group {
			if !seen[card.MechanismType] {
				seen[card.MechanismType] = true
				mechanisms = append(mechanisms, card.MechanismType)
			}
		}
		sort.Strings(mechanisms)

		draft := ClusterDraft{
			Cluster: types.Cluster{
				Name:               titleCaser.String(bottleneck) + " Cluster",
				DominantBottleneck: bottleneck,
				MechanismSummary:   "Dominant mechanisms: " + strings.Join(mechanisms, ", "),
				WeekKey:            weekKey,
				CreatedAt:          now,
			},
		}
		for _, card := range group {
			draft.PaperIDs = append(draft.PaperIDs, card.PaperID)
		}
		out = append(out, draft)
	}
	return out
}
