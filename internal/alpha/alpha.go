// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package alpha derives structured alpha cards from stored papers. The base
// extraction is a deterministic keyword heuristic; a language model pass
// enriches the strategic relevance field when a provider is reachable.
package alpha

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/frontier-pulse/internal/inference"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

const (
	abstractPromptLimit = 3000
	relevanceLimit      = 900
	summaryAbstractCap  = 220
	improvementCap      = 600
	snippetCap          = 240
)

// Extractor builds alpha cards for papers. A nil Inference client disables
// model enrichment and keeps the heuristic content.
type Extractor struct {
	Inference   inference.Client
	Model       string
	Temperature float64
	Logger      *zap.Logger

	now func() time.Time
}

// NewExtractor returns an extractor with the given enrichment client.
func NewExtractor(client inference.Client, model string, temperature float64, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		Inference:   client,
		Model:       model,
		Temperature: temperature,
		Logger:      logger,
		now:         time.Now,
	}
}

// Extract builds a new card for the paper at the given version number. The
// caller decides versioning and demotion; the returned card carries
// IsCurrent set.
func (e *Extractor) Extract(ctx context.Context, paper *types.Paper, chunks []types.PaperChunk, version int) *types.AlphaCard {
	card := heuristicCard(paper, chunks)
	card.VersionNumber = version
	card.IsCurrent = true
	card.CreatedAt = e.now().UTC()

	e.enrich(ctx, paper, card)
	return card
}

// enrich asks the model for a strategic summary. Enrichment is best-effort:
// any failure keeps the heuristic field and logs at debug level.
func (e *Extractor) enrich(ctx context.Context, paper *types.Paper, card *types.AlphaCard) {
	if e.Inference == nil {
		return
	}
	abstract := paper.Abstract
	if len(abstract) > abstractPromptLimit {
		abstract = abstract[:abstractPromptLimit]
	}
	prompt := fmt.Sprintf(
		"Summarize this paper for structured alpha extraction in 5 bullet points:\n\nTitle: %s\nAbstract: %s",
		paper.Title, abstract)

	res, err := e.Inference.Generate(ctx, inference.Request{
		Prompt:      prompt,
		Model:       e.Model,
		Temperature: e.Temperature,
	})
	if err != nil {
		e.Logger.Debug("alpha enrichment skipped",
			zap.Int64("paper_id", paper.ID), zap.Error(err))
		return
	}
	if res.Text == "" {
		return
	}
	text := res.Text
	if len(text) > relevanceLimit {
		text = text[:relevanceLimit]
	}
	card.StrategicRelevance = text
}

// heuristicCard derives all fields from title, abstract, and the first chunk.
func heuristicCard(paper *types.Paper, chunks []types.PaperChunk) *types.AlphaCard {
	corpus := strings.ToLower(paper.Title + "\n" + paper.Abstract)

	bottleneck := "inference efficiency"
	if strings.Contains(corpus, "reason") {
		bottleneck = "reasoning depth"
	}
	mechanism := "training/data"
	if strings.Contains(corpus, "test-time") || strings.Contains(corpus, "inference-time") {
		mechanism = "test-time compute"
	}
	scalingAxis := "data"
	if strings.Contains(corpus, "compute") {
		scalingAxis = "compute"
	}

	snippet := ""
	if len(chunks) > 0 {
		snippet = truncate(chunks[0].Text, snippetCap)
	}

	return &types.AlphaCard{
		PaperID:                  paper.ID,
		BottleneckAttacked:       bottleneck,
		MechanismType:            mechanism,
		ScalingAxis:              scalingAxis,
		ComputeRegime:            "low-to-medium",
		ClaimedImprovement:       truncate(paper.Abstract, improvementCap),
		EvaluationRisk:           "Potential benchmark overfitting; requires robustness checks.",
		ImplicitAssumptions:      "Assumes gains transfer to out-of-distribution tasks.",
		NoveltyBucket:            noveltyBucket(paper.Title + " " + paper.Abstract),
		GeneralizationLikelihood: "medium",
		ScalingProjection:        "Expected gains increase with additional inference budget.",
		StrategicRelevance:       "Relevant for frontier inference-time optimization roadmap.",
		ShortAlphaSummary:        fmt.Sprintf("%s: %s", paper.Title, truncate(paper.Abstract, summaryAbstractCap)),
		ProvenanceSnippets:       snippet,
	}
}

// noveltyBucket maps claim language to high/medium/low.
func noveltyBucket(text string) string {
	lowered := strings.ToLower(text)
	for _, k := range []string{"first", "novel", "new"} {
		if strings.Contains(lowered, k) {
			return "high"
		}
	}
	for _, k := range []string{"incremental", "baseline", "ablation"} {
		if strings.Contains(lowered, k) {
			return "low"
		}
	}
	return "medium"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
