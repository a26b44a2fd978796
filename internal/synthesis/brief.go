// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

// BriefInput collects everything the weekly brief renders.
type BriefInput struct {
	WeekKey            string
	Papers             []types.Paper
	Cards              []types.AlphaCard
	Hypotheses         []types.Hypothesis
	LongHorizonInsight string
	Project            types.ProjectConfig
}

// RenderBrief produces the weekly markdown brief.
func RenderBrief(in BriefInput) string {
	counts := map[string]int{}
	for _, p := range in.Papers {
		counts[p.Source]++
	}
	sources := make([]string, 0, len(counts))
	for s := range counts {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	var sourceLines []string
	for _, s := range sources {
		sourceLines = append(sourceLines, fmt.Sprintf("- %s: %d", s, counts[s]))
	}
	sourceBlock := strings.Join(sourceLines, "\n")
	if sourceBlock == "" {
		sourceBlock = "- none"
	}

	topHypothesis := "No hypotheses generated yet."
	if len(in.Hypotheses) > 0 {
		topHypothesis = in.Hypotheses[0].Text
	}

	dominantBottleneck := "N/A"
	if len(in.Cards) > 0 {
		dominantBottleneck = in.Cards[0].BottleneckAttacked
	}

	provenanceFlag := "disabled"
	if in.Project.CitationProvenanceRequired {
		provenanceFlag = "enabled"
	}

	return fmt.Sprintf(`# frontier-pulse Weekly Brief (%s)

## Field Temperature
- Total ingested artifacts: %d
- Source distribution:
%s

## Dominant Bottleneck
- %s

## Top Hypothesis
- %s

## Strategic Flags
- Citation provenance is %s.
- Quality gate target precision: %.2f

## Long-Horizon Insight
- %s

## Open Questions
- Which mechanisms remain robust across revised versions?
- Which gains are likely benchmark-specific?
`,
		in.WeekKey,
		len(in.Papers),
		sourceBlock,
		dominantBottleneck,
		topHypothesis,
		provenanceFlag,
		in.Project.MinAcceptablePrecision,
		in.LongHorizonInsight,
	)
}
