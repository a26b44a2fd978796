// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package alpha

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/frontier-pulse/internal/inference"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

type scriptedClient struct {
	text    string
	err     error
	prompts []string
}

func (s *scriptedClient) Generate(_ context.Context, req inference.Request) (inference.Result, error) {
	s.prompts = append(s.prompts, req.Prompt)
	if s.err != nil {
		return inference.Result{}, s.err
	}
	return inference.Result{Text: s.text, Provider: "ollama"}, nil
}

func testPaper() *types.Paper {
	return &types.Paper{
		ID:       7,
		Title:    "Test-Time Reasoning With Compute Scaling",
		Abstract: "A novel approach to reasoning via inference-time compute allocation.",
	}
}

func TestExtract_HeuristicFields(t *testing.T) {
	e := NewExtractor(nil, "", 0, nil)
	chunks := []types.PaperChunk{{Text: "We allocate compute at inference time."}}

	card := e.Extract(context.Background(), testPaper(), chunks, 1)

	assert.Equal(t, int64(7), card.PaperID)
	assert.Equal(t, 1, card.VersionNumber)
	assert.True(t, card.IsCurrent)
	assert.Equal(t, "reasoning depth", card.BottleneckAttacked)
	assert.Equal(t, "test-time compute", card.MechanismType)
	assert.Equal(t, "compute", card.ScalingAxis)
	assert.Equal(t, "low-to-medium", card.ComputeRegime)
	assert.Equal(t, "high", card.NoveltyBucket)
	assert.Equal(t, "We allocate compute at inference time.", card.ProvenanceSnippets)
	assert.True(t, strings.HasPrefix(card.ShortAlphaSummary, "Test-Time Reasoning With Compute Scaling: "))
}

func TestExtract_DefaultBuckets(t *testing.T) {
	e := NewExtractor(nil, "", 0, nil)
	paper := &types.Paper{
		ID:       8,
		Title:    "A Study Of Transformers",
		Abstract: "We evaluate data efficiency of standard architectures.",
	}

	card := e.Extract(context.Background(), paper, nil, 1)

	assert.Equal(t, "inference efficiency", card.BottleneckAttacked)
	assert.Equal(t, "training/data", card.MechanismType)
	assert.Equal(t, "data", card.ScalingAxis)
	assert.Equal(t, "medium", card.NoveltyBucket)
	assert.Empty(t, card.ProvenanceSnippets)
}

func TestExtract_NoveltyLow(t *testing.T) {
	e := NewExtractor(nil, "", 0, nil)
	paper := &types.Paper{Title: "An incremental baseline ablation", Abstract: "Nothing groundbreaking."}

	card := e.Extract(context.Background(), paper, nil, 1)
	assert.Equal(t, "low", card.NoveltyBucket)
}

func TestExtract_ModelEnrichmentReplacesRelevance(t *testing.T) {
	client := &scriptedClient{text: "- bullet one\n- bullet two"}
	e := NewExtractor(client, "llama3.1:8b", 0.1, nil)

	card := e.Extract(context.Background(), testPaper(), nil, 1)

	assert.Equal(t, "- bullet one\n- bullet two", card.StrategicRelevance)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "structured alpha extraction in 5 bullet points")
	assert.Contains(t, client.prompts[0], "Test-Time Reasoning With Compute Scaling")
}

func TestExtract_EnrichmentFailureKeepsHeuristic(t *testing.T) {
	client := &scriptedClient{err: fmt.Errorf("provider down")}
	e := NewExtractor(client, "llama3.1:8b", 0.1, nil)

	card := e.Extract(context.Background(), testPaper(), nil, 2)

	assert.Equal(t, 2, card.VersionNumber)
	assert.Equal(t, "Relevant for frontier inference-time optimization roadmap.", card.StrategicRelevance)
}

func TestExtract_EnrichmentTruncated(t *testing.T) {
	client := &scriptedClient{text: strings.Repeat("x", 2000)}
	e := NewExtractor(client, "m", 0, nil)

	card := e.Extract(context.Background(), testPaper(), nil, 1)
	assert.Len(t, card.StrategicRelevance, 900)
}
