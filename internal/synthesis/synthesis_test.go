// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

func cardWith(paperID int64, mechanism, bottleneck string) types.AlphaCard {
	return types.AlphaCard{
		PaperID:            paperID,
		VersionNumber:      1,
		MechanismType:      mechanism,
		BottleneckAttacked: bottleneck,
		NoveltyBucket:      "medium",
		ShortAlphaSummary:  "summary",
		ProvenanceSnippets: "snippet",
	}
}

func TestBuildHypotheses_StrengthGrowsWithGroupSize(t *testing.T) {
	now := time.Now().UTC()

	one := BuildHypotheses([]types.AlphaCard{
		cardWith(1, "test-time compute", "reasoning depth"),
	}, "2026-W35", now)
	require.Len(t, one, 1)
	assert.InDelta(t, 0.48, one[0].Hypothesis.StrengthScore, 1e-9)

	five := make([]types.AlphaCard, 5)
	for i := range five {
		five[i] = cardWith(int64(i+1), "test-time compute", "reasoning depth")
	}
	got := BuildHypotheses(five, "2026-W35", now)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.80, got[0].Hypothesis.StrengthScore, 1e-9)
	require.Len(t, got[0].Links, 5)
	assert.InDelta(t, 0.75, got[0].Links[0].Confidence, 1e-9)
	assert.Equal(t, RelationSupport, got[0].Links[0].Relation)

	ten := make([]types.AlphaCard, 10)
	for i := range ten {
		ten[i] = cardWith(int64(i+1), "test-time compute", "reasoning depth")
	}
	capped := BuildHypotheses(ten, "2026-W35", now)
	require.Len(t, capped, 1)
	assert.Equal(t, 1.0, capped[0].Hypothesis.StrengthScore)
	assert.Equal(t, 0.95, capped[0].Links[0].Confidence)
}

func TestBuildHypotheses_GroupsByMechanism(t *testing.T) {
	cards := []types.AlphaCard{
		cardWith(1, "training/data", "inference efficiency"),
		cardWith(2, "test-time compute", "reasoning depth"),
		cardWith(3, "test-time compute", "reasoning depth"),
	}
	got := BuildHypotheses(cards, "2026-W35", time.Now())
	require.Len(t, got, 2)

	// Sorted mechanism order.
	assert.Equal(t, "test-time compute approaches continue to improve frontier model reasoning efficiency", got[0].Hypothesis.Text)
	assert.Len(t, got[0].Links, 2)
	assert.Equal(t, "training/data approaches continue to improve frontier model reasoning efficiency", got[1].Hypothesis.Text)
	assert.Len(t, got[1].Links, 1)
	assert.Equal(t, "mechanism", got[0].Hypothesis.Type)
	assert.Equal(t, "2026-W35", got[0].Hypothesis.WeekIntroduced)
}

func TestBuildClusters(t *testing.T) {
	cards := []types.AlphaCard{
		cardWith(1, "test-time compute", "reasoning depth"),
		cardWith(2, "training/data", "reasoning depth"),
		cardWith(3, "training/data", "inference efficiency"),
	}
	got := BuildClusters(cards, "2026-W35", time.Now())
	require.Len(t, got, 2)

	assert.Equal(t, "Inference Efficiency Cluster", got[0].Cluster.Name)
	assert.Equal(t, "inference efficiency", got[0].Cluster.DominantBottleneck)
	assert.Equal(t, "Dominant mechanisms: training/data", got[0].Cluster.MechanismSummary)
	assert.Equal(t, []int64{3}, got[0].PaperIDs)

	assert.Equal(t, "Reasoning Depth Cluster", got[1].Cluster.Name)
	assert.Equal(t, "Dominant mechanisms: test-time compute, training/data", got[1].Cluster.MechanismSummary)
	assert.ElementsMatch(t, []int64{1, 2}, got[1].PaperIDs)
}

func TestLongHorizonInsight(t *testing.T) {
	assert.Equal(t, "No historical signal available yet.",
		LongHorizonInsight("2026-W35", nil, nil, nil))

	weeks := []string{"2026-W35", "2026-W34"}
	hyps := []types.Hypothesis{
		{Type: "mechanism"}, {Type: "mechanism"}, {Type: "trend"},
	}
	clusters := []types.Cluster{
		{DominantBottleneck: "reasoning depth"},
		{DominantBottleneck: "reasoning depth"},
		{DominantBottleneck: "inference efficiency"},
	}
	got := LongHorizonInsight("2026-W35", weeks, hyps, clusters)
	assert.Equal(t,
		"Across the last 2 tracked weeks (up to 2026-W35), the dominant hypothesis types are: mechanism(2), trend(1). Most persistent bottlenecks are: reasoning depth(2), inference efficiency(1).",
		got)
}

func TestBuildMemoryEntries(t *testing.T) {
	now := time.Now().UTC()
	hyps := []types.Hypothesis{{ID: 11, Text: "hypothesis text"}}
	cards := []types.AlphaCard{cardWith(5, "test-time compute", "reasoning depth")}

	entries := BuildMemoryEntries("2026-W35", hyps, cards, "the insight", now)
	require.Len(t, entries, 3)

	assert.Equal(t, "2026-W35:hypothesis:11", entries[0].MemoryKey)
	assert.Equal(t, "hypothesis", entries[0].MemoryType)
	assert.NotEmpty(t, entries[0].Embedding)

	assert.Equal(t, "2026-W35:alpha:5:1", entries[1].MemoryKey)
	assert.Equal(t, "alpha_nugget", entries[1].MemoryType)
	assert.Contains(t, entries[1].Summary, "Mechanism=test-time compute; Bottleneck=reasoning depth; Novelty=medium.")

	assert.Equal(t, "2026-W35:trend:long_horizon", entries[2].MemoryKey)
	assert.Equal(t, "weekly_synthesis", entries[2].MemoryType)
	assert.Equal(t, "the insight", entries[2].Summary)
}

func TestRenderBrief(t *testing.T) {
	in := BriefInput{
		WeekKey: "2026-W35",
		Papers: []types.Paper{
			{Source: "arxiv"}, {Source: "arxiv"}, {Source: "frontier_blogs"},
		},
		Cards:              []types.AlphaCard{cardWith(1, "test-time compute", "reasoning depth")},
		Hypotheses:         []types.Hypothesis{{Text: "top hypothesis"}},
		LongHorizonInsight: "insight line",
		Project: types.ProjectConfig{
			CitationProvenanceRequired: true,
			MinAcceptablePrecision:     0.8,
		},
	}
	md := RenderBrief(in)

	assert.Contains(t, md, "# frontier-pulse Weekly Brief (2026-W35)")
	assert.Contains(t, md, "- Total ingested artifacts: 3")
	assert.Contains(t, md, "- arxiv: 2\n- frontier_blogs: 1")
	assert.Contains(t, md, "## Dominant Bottleneck\n- reasoning depth")
	assert.Contains(t, md, "## Top Hypothesis\n- top hypothesis")
	assert.Contains(t, md, "Citation provenance is enabled.")
	assert.Contains(t, md, "Quality gate target precision: 0.80")
	assert.Contains(t, md, "- insight line")
}

func TestRenderBrief_Empty(t *testing.T) {
	md := RenderBrief(BriefInput{WeekKey: "2026-W01", LongHorizonInsight: "No historical signal available yet."})
	assert.Contains(t, md, "- Source distribution:\n- none")
	assert.Contains(t, md, "## Dominant Bottleneck\n- N/A")
	assert.Contains(t, md, "No hypotheses generated yet.")
}
