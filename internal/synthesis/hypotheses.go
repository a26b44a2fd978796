// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis turns the week's alpha cards into hypotheses, clusters,
// long-horizon memory entries, and the rendered weekly brief.
package synthesis

import (
	"fmt"
	"sort"
	"time"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

const (
	// RelationSupport and RelationContradict are the evidence link kinds.
	// Contradiction edges are reserved; the heuristic only emits support.
	RelationSupport    = "support"
	RelationContradict = "contradict"

	linkProvenanceCap = 220
)

// LinkDraft is an unsaved hypothesis-paper evidence link.
type LinkDraft struct {
	PaperID    int64
	Relation   string
	Confidence float64
	Provenance string
}

// HypothesisDraft pairs an unsaved hypothesis with its evidence links.
type HypothesisDraft struct {
	Hypothesis types.Hypothesis
	Links      []LinkDraft
}

// BuildHypotheses groups the week's cards by mechanism type and emits one
// hypothesis per group. Strength grows with group size and saturates at 1.0;
// link confidence saturates at 0.95. Groups come out in sorted mechanism
// order so reruns are deterministic.
func BuildHypotheses(cards []types.AlphaCard, weekKey string, now time.Time) []HypothesisDraft {
	grouped := map[string][]types.AlphaCard{}
	for _, card := range cards {
		grouped[card.MechanismType] = append(grouped[card.MechanismType], card)
	}

	mechanisms := make([]string, 0, len(grouped))
	for m := range grouped {
		mechanisms = append(mechanisms, m)
	}
	sort.Strings(mechanisms)

	out := make([]HypothesisDraft, 0, len(mechanisms))
	for _, mechanism := range mechanisms {
		group := grouped[mechanism]
		strength := 0.4 + 0.08*float64(len(group))
		if strength > 1.0 {
			strength = 1.0
		}
		confidence := 0.5 + 0.05*float64(len(group))
		if confidence > 0.95 {
			confidence = 0.95
		}

		draft := HypothesisDraft{
			Hypothesis: types.Hypothesis{
				Text: fmt.Sprintf(
					"%s approaches continue to improve frontier model reasoning efficiency",
					mechanism),
				Type:           "mechanism",
				StrengthScore:  strength,
				WeekIntroduced: weekKey,
				CreatedAt:      now,
			},
		}
		for _, card := range group {
			prov := card.ProvenanceSnippets
			if len(prov) > linkProvenanceCap {
				prov = prov[:linkProvenanceCap]
			}
			draft.Links = append(draft.Links, LinkDraft{
				PaperID:    card.PaperID,
				Relation:   RelationSupport,
				Confidence: confidence,
				Provenance: prov,
			})
		}
		out = append(out, draft)
	}
	return out
}
