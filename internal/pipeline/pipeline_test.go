// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/frontier-pulse/internal/alpha"
	"github.com/pdiddy/frontier-pulse/internal/source"
	"github.com/pdiddy/frontier-pulse/internal/store"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

type fakeConnector struct {
	name string
	docs []types.Document
	err  error
}

func (f *fakeConnector) Name() string { return f.name }

func (f *fakeConnector) Fetch(_ context.Context, maxItems int) ([]types.Document, error) {
	if f.err != nil {
		return nil, &source.FetchError{Source: f.name, Err: f.err}
	}
	if len(f.docs) > maxItems {
		return f.docs[:maxItems], nil
	}
	return f.docs, nil
}

func testDoc(sourceName, id, title string, published time.Time) types.Document {
	return types.Document{
		Source:      sourceName,
		SourceID:    id,
		Title:       title,
		Authors:     "A. Researcher",
		Abstract:    "A novel test-time reasoning method with compute scaling.",
		FullText:    "Introduction\n" + strings.Repeat("finding ", 400) + "\nReferences\n[1] prior work",
		PublishedAt: published,
		SourceURL:   "https://example.org/" + id,
	}
}

func testConfig() types.Config {
	return types.Config{
		Ingestion: types.IngestionConfig{
			Sources:            []string{"arxiv", "frontier_blogs"},
			DefaultMaxPapers:   120,
			DedupeStrategy:     "fuzzy_title_abstract",
			AppendixPolicy:     "main_first_fallback",
			ChunkTargetTokens:  1200,
			ChunkOverlapTokens: 150,
			TopicBiasEnabled:   true,
			TopicBiasKeywords:  []string{"reasoning", "scaling"},
		},
		Project: types.ProjectConfig{
			CitationProvenanceRequired: true,
			MinAcceptablePrecision:     0.7,
			RedactExportPaths:          true,
		},
	}
}

func newTestPipeline(t *testing.T, connectors map[string]source.Connector) (*Pipeline, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	extractor := alpha.NewExtractor(nil, "", 0, nil)
	p := New(st, connectors, extractor, testConfig(), nil)
	p.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return p, st
}

func TestWeekKey(t *testing.T) {
	assert.Equal(t, "2026-W35", WeekKey(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-W01", WeekKey(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRunWeekly_EndToEnd(t *testing.T) {
	published := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	connectors := map[string]source.Connector{
		"arxiv": &fakeConnector{name: "arxiv", docs: []types.Document{
			testDoc("arxiv", "arxiv:2608.01000", "Reasoning With Test-Time Compute", published),
			testDoc("arxiv", "arxiv:2608.01001", "Data Curation At Scale", published.Add(-time.Hour)),
		}},
		"frontier_blogs": &fakeConnector{name: "frontier_blogs", docs: []types.Document{
			testDoc("frontier_blogs", "frontier_blogs:post-1", "Scaling Inference Budgets", published.Add(-2*time.Hour)),
		}},
	}
	p, st := newTestPipeline(t, connectors)
	ctx := context.Background()

	res, err := p.RunWeekly(ctx, types.RunRequest{})
	require.NoError(t, err)

	assert.Equal(t, "completed", res.Status)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Ingested)
	assert.Equal(t, 3, res.Cards)
	assert.Equal(t, 1, res.BriefVersion)
	assert.Greater(t, res.Hypotheses, 0)
	assert.Greater(t, res.Clusters, 0)
	assert.Contains(t, res.Notes, "ingested=3")
	assert.Contains(t, res.Notes, "topic_matched=3")

	run, err := st.GetRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.NotNil(t, run.CompletedAt)
	assert.Equal(t, "arxiv,frontier_blogs", run.SourceScope)

	papers, err := st.ListPapers(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, papers, 3)

	// Reference tail stripped before storage.
	stored, err := st.GetPaper(ctx, papers[0].ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.FullText, "[1] prior work")

	card, err := st.CurrentCard(ctx, papers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, card.VersionNumber)

	brief, err := st.LatestBriefVersion(ctx, "2026-W35")
	require.NoError(t, err)
	assert.Contains(t, brief.Markdown, "# frontier-pulse Weekly Brief (2026-W35)")
	assert.Contains(t, brief.Markdown, "- arxiv: 2")
	assert.Contains(t, brief.Markdown, "- frontier_blogs: 1")

	memories, err := st.ListMemory(ctx, "2026-W35", "", 50)
	require.NoError(t, err)
	// One per hypothesis, one per card, one trend entry.
	assert.Len(t, memories, res.Hypotheses+res.Cards+1)
}

func TestRunWeekly_RerunDeduplicatesAndVersions(t *testing.T) {
	published := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	connectors := map[string]source.Connector{
		"arxiv": &fakeConnector{name: "arxiv", docs: []types.Document{
			testDoc("arxiv", "arxiv:2608.01000", "Reasoning With Test-Time Compute", published),
		}},
	}
	p, st := newTestPipeline(t, connectors)
	ctx := context.Background()

	first, err := p.RunWeekly(ctx, types.RunRequest{Sources: []string{"arxiv"}})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Ingested)
	assert.Equal(t, 1, first.BriefVersion)

	second, err := p.RunWeekly(ctx, types.RunRequest{Sources: []string{"arxiv"}})
	require.NoError(t, err)
	assert.Zero(t, second.Ingested)
	assert.Equal(t, 2, second.BriefVersion)

	// Memory upserts stay idempotent across reruns.
	memories, err := st.ListMemory(ctx, "2026-W35", "weekly_synthesis", 50)
	require.NoError(t, err)
	assert.Len(t, memories, 1)
}

func TestRunWeekly_SourceFailureIsRecordedNotFatal(t *testing.T) {
	published := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	connectors := map[string]source.Connector{
		"arxiv": &fakeConnector{name: "arxiv", docs: []types.Document{
			testDoc("arxiv", "arxiv:2608.01000", "Reasoning With Test-Time Compute", published),
		}},
		"openreview": &fakeConnector{name: "openreview", err: fmt.Errorf("HTTP 503")},
	}
	p, _ := newTestPipeline(t, connectors)

	res, err := p.RunWeekly(context.Background(), types.RunRequest{
		Sources: []string{"arxiv", "openreview"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Ingested)
	assert.Contains(t, res.Notes, "errors=openreview:")
	assert.Contains(t, res.Notes, "HTTP 503")
}

func TestRunWeekly_MaxPapersBoundsIngestion(t *testing.T) {
	published := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	var docs []types.Document
	for i := 0; i < 30; i++ {
		title := fmt.Sprintf("Paper %02d", i)
		if i < 5 {
			title = fmt.Sprintf("Reasoning Paper %02d", i)
		}
		docs = append(docs, testDoc("arxiv", fmt.Sprintf("arxiv:2608.%05d", i), title,
			published.Add(-time.Duration(i)*time.Hour)))
	}
	connectors := map[string]source.Connector{
		"arxiv": &fakeConnector{name: "arxiv", docs: docs},
	}
	p, st := newTestPipeline(t, connectors)

	res, err := p.RunWeekly(context.Background(), types.RunRequest{
		MaxPapers: 5, Sources: []string{"arxiv"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Ingested)

	// Topic-biased prioritization keeps the keyword matches.
	papers, err := st.ListPapers(context.Background(), "arxiv", 10)
	require.NoError(t, err)
	for _, paper := range papers {
		assert.Contains(t, paper.Title, "Reasoning")
	}
}

func TestRunWeekly_UnknownSourceSkipped(t *testing.T) {
	p, _ := newTestPipeline(t, map[string]source.Connector{})

	res, err := p.RunWeekly(context.Background(), types.RunRequest{Sources: []string{"nope"}})
	require.NoError(t, err)
	assert.Zero(t, res.Ingested)
	assert.Equal(t, 1, res.BriefVersion)
}
