// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the weekly synthesis run: fetch, dedupe,
// store, extract, synthesize, render, and remember, all inside one store
// transaction.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/frontier-pulse/internal/alpha"
	"github.com/pdiddy/frontier-pulse/internal/embed"
	"github.com/pdiddy/frontier-pulse/internal/source"
	"github.com/pdiddy/frontier-pulse/internal/store"
	"github.com/pdiddy/frontier-pulse/internal/synthesis"
	"github.com/pdiddy/frontier-pulse/internal/textutil"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

const (
	defaultMaxPapers = 120
	minPerSourceCap  = 15
	chunkEmbedCap    = 4000
)

// Pipeline runs the weekly synthesis workflow.
type Pipeline struct {
	Store      *store.Store
	Connectors map[string]source.Connector
	Extractor  *alpha.Extractor
	Config     types.Config
	Logger     *zap.Logger

	now      func() time.Time
	newRunID func() string
}

// New assembles a pipeline over the given store and connectors.
func New(st *store.Store, connectors map[string]source.Connector, extractor *alpha.Extractor, cfg types.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Store:      st,
		Connectors: connectors,
		Extractor:  extractor,
		Config:     cfg,
		Logger:     logger,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// WeekKey formats the ISO week of t, e.g. "2026-W35".
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// RunWeekly executes one full weekly synthesis. Per-source fetch failures
// are recorded in the run notes and never abort the run; everything after
// fetching commits in a single transaction.
func (p *Pipeline) RunWeekly(ctx context.Context, req types.RunRequest) (*types.RunResult, error) {
	now := p.now().UTC()
	weekKey := WeekKey(now)

	requested := req.Sources
	if len(requested) == 0 {
		requested = p.Config.Ingestion.Sources
	}
	maxItems := req.MaxPapers
	if maxItems <= 0 {
		maxItems = p.Config.Ingestion.DefaultMaxPapers
	}
	if maxItems <= 0 {
		maxItems = defaultMaxPapers
	}

	p.Logger.Info("starting weekly synthesis",
		zap.String("week", weekKey),
		zap.Strings("sources", requested),
		zap.Int("max_papers", maxItems))

	docs, sourceErrors := p.fetchAll(ctx, requested, maxItems)
	prioritized := p.prioritize(docs, maxItems)
	topicMatches := 0
	for _, d := range prioritized {
		if p.topicScore(d) > 0 {
			topicMatches++
		}
	}

	run := &types.IngestionRun{
		ID:          p.newRunID(),
		StartedAt:   now,
		SourceScope: strings.Join(requested, ","),
		Notes:       "weekly pipeline",
	}

	var result *types.RunResult
	err := p.Store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.CreateRun(run); err != nil {
			return err
		}

		var papers []types.Paper
		var cards []types.AlphaCard
		for _, doc := range prioritized {
			dup, err := p.isDuplicate(tx, doc)
			if err != nil {
				return err
			}
			if dup {
				continue
			}
			paper, chunks, err := p.storePaper(tx, doc)
			if err != nil {
				return err
			}
			papers = append(papers, *paper)

			card, err := p.extractCard(ctx, tx, paper, chunks)
			if err != nil {
				return err
			}
			cards = append(cards, *card)
		}

		hypDrafts := synthesis.BuildHypotheses(cards, weekKey, now)
		var hypotheses []types.Hypothesis
		for _, draft := range hypDrafts {
			h := draft.Hypothesis
			if err := tx.InsertHypothesis(&h); err != nil {
				return err
			}
			hypotheses = append(hypotheses, h)
			for _, link := range draft.Links {
				l := types.HypothesisPaperLink{
					HypothesisID: h.ID,
					PaperID:      link.PaperID,
					Relation:     link.Relation,
					Confidence:   link.Confidence,
					Provenance:   link.Provenance,
				}
				if err := tx.InsertHypothesisLink(&l); err != nil {
					return err
				}
			}
		}

		clusterDrafts := synthesis.BuildClusters(cards, weekKey, now)
		var clusters []types.Cluster
		for _, draft := range clusterDrafts {
			c := draft.Cluster
			if err := tx.InsertCluster(&c); err != nil {
				return err
			}
			clusters = append(clusters, c)
			for _, paperID := range draft.PaperIDs {
				if err := tx.InsertClusterLink(c.ID, paperID); err != nil {
					return err
				}
			}
		}

		briefID, err := tx.EnsureBrief(weekKey, "frontier-pulse "+weekKey, now)
		if err != nil {
			return err
		}
		maxVersion, err := tx.MaxBriefVersion(briefID)
		if err != nil {
			return err
		}

		weeks, err := tx.RecentBriefWeeks(synthesis.MemoryLookbackWeeks)
		if err != nil {
			return err
		}
		pastHyps, err := tx.HypothesesByWeeks(weeks)
		if err != nil {
			return err
		}
		pastClusters, err := tx.ClustersByWeeks(weeks)
		if err != nil {
			return err
		}
		insight := synthesis.LongHorizonInsight(weekKey, weeks, pastHyps, pastClusters)

		markdown := synthesis.RenderBrief(synthesis.BriefInput{
			WeekKey:            weekKey,
			Papers:             papers,
			Cards:              cards,
			Hypotheses:         hypotheses,
			LongHorizonInsight: insight,
			Project:            p.Config.Project,
		})
		version := &types.BriefVersion{
			BriefID:       briefID,
			WeekKey:       weekKey,
			VersionNumber: maxVersion + 1,
			Editor:        "system",
			Markdown:      markdown,
			CreatedAt:     now,
		}
		if err := tx.InsertBriefVersion(version); err != nil {
			return err
		}

		for _, entry := range synthesis.BuildMemoryEntries(weekKey, hypotheses, cards, insight, now) {
			e := entry
			if err := tx.UpsertMemory(&e); err != nil {
				return err
			}
		}

		notes := fmt.Sprintf("ingested=%d topic_matched=%d hypotheses=%d clusters=%d",
			len(papers), topicMatches, len(hypotheses), len(clusters))
		if len(sourceErrors) > 0 {
			shown := sourceErrors
			if len(shown) > 3 {
				shown = shown[:3]
			}
			notes += " errors=" + strings.Join(shown, "; ")
		}
		if err := tx.CompleteRun(run.ID, len(papers), notes, p.now().UTC()); err != nil {
			return err
		}

		result = &types.RunResult{
			Status:       "completed",
			RunID:        run.ID,
			Ingested:     len(papers),
			Cards:        len(cards),
			Hypotheses:   len(hypotheses),
			Clusters:     len(clusters),
			BriefVersion: version.VersionNumber,
			Notes:        notes,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("weekly synthesis: %w", err)
	}

	p.Logger.Info("weekly synthesis completed",
		zap.String("run_id", result.RunID),
		zap.Int("ingested", result.Ingested),
		zap.Int("hypotheses", result.Hypotheses),
		zap.Int("brief_version", result.BriefVersion))
	return result, nil
}

// fetchAll queries the requested connectors concurrently. Each source gets
// a proportional cap with a floor so small requests still sample every
// source. Failures come back as note strings, not errors.
func (p *Pipeline) fetchAll(ctx context.Context, requested []string, maxItems int) ([]types.Document, []string) {
	perSourceCap := minPerSourceCap
	if len(requested) > 0 {
		if proportional := maxItems / len(requested); proportional > perSourceCap {
			perSourceCap = proportional
		}
	}

	var (
		mu      sync.Mutex
		docs    []types.Document
		errNote []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range requested {
		connector, ok := p.Connectors[name]
		if !ok {
			p.Logger.Warn("unknown source requested", zap.String("source", name))
			continue
		}
		g.Go(func() error {
			fetched, err := connector.Fetch(gctx, perSourceCap)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.Logger.Warn("source fetch failed",
					zap.String("source", connector.Name()), zap.Error(err))
				errNote = append(errNote, fmt.Sprintf("%s:%v", connector.Name(), err))
				return nil
			}
			docs = append(docs, fetched...)
			return nil
		})
	}
	g.Wait()
	sort.Strings(errNote)
	return docs, errNote
}

// topicScore counts configured keyword hits in title and abstract.
func (p *Pipeline) topicScore(doc types.Document) int {
	if !p.Config.Ingestion.TopicBiasEnabled {
		return 0
	}
	text := strings.ToLower(doc.Title + "\n" + doc.Abstract)
	score := 0
	for _, kw := range p.Config.Ingestion.TopicBiasKeywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}

// prioritize ranks documents by topic score then recency and truncates to
// maxItems.
func (p *Pipeline) prioritize(docs []types.Document, maxItems int) []types.Document {
	ranked := make([]types.Document, len(docs))
	copy(ranked, docs)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := p.topicScore(ranked[i]), p.topicScore(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})
	if maxItems > 0 && len(ranked) > maxItems {
		ranked = ranked[:maxItems]
	}
	return ranked
}

// isDuplicate applies the configured dedupe strategy. Source id matches are
// always duplicates; the fuzzy strategy additionally drops documents whose
// title and abstract prefixes match a stored paper.
func (p *Pipeline) isDuplicate(tx *store.Tx, doc types.Document) (bool, error) {
	exists, err := tx.PaperExistsBySourceID(doc.SourceID)
	if err != nil || exists {
		return exists, err
	}
	if p.Config.Ingestion.DedupeStrategy == "fuzzy_title_abstract" && doc.Title != "" {
		return tx.PaperExistsFuzzy(doc.Title, doc.Abstract)
	}
	return false, nil
}

// storePaper persists the document and its chunks and returns both.
func (p *Pipeline) storePaper(tx *store.Tx, doc types.Document) (*types.Paper, []types.PaperChunk, error) {
	body := doc.FullText
	if p.Config.Ingestion.AppendixPolicy == "main_first_fallback" {
		body = textutil.StripReferenceTail(body)
	}

	paper := &types.Paper{
		Source:      doc.Source,
		SourceID:    doc.SourceID,
		ArxivID:     doc.ArxivID,
		Title:       doc.Title,
		Authors:     doc.Authors,
		PublishedAt: doc.PublishedAt,
		UpdatedAt:   doc.UpdatedAt,
		Abstract:    doc.Abstract,
		FullText:    body,
		SourceURL:   doc.SourceURL,
		Embedding:   embed.Text(doc.Title + "\n" + doc.Abstract),
	}
	if err := tx.InsertPaper(paper); err != nil {
		return nil, nil, err
	}

	raw := textutil.MakeChunks(body,
		p.Config.Ingestion.ChunkTargetTokens, p.Config.Ingestion.ChunkOverlapTokens)
	chunks := make([]types.PaperChunk, 0, len(raw))
	for i, c := range raw {
		embedText := c.Text
		if len(embedText) > chunkEmbedCap {
			embedText = embedText[:chunkEmbedCap]
		}
		chunk := types.PaperChunk{
			PaperID:         paper.ID,
			SectionName:     c.SectionName,
			ChunkIndex:      i,
			Text:            c.Text,
			EstimatedTokens: c.EstimatedTokens,
			Embedding:       embed.Text(embedText),
		}
		if err := tx.InsertChunk(&chunk); err != nil {
			return nil, nil, err
		}
		chunks = append(chunks, chunk)
	}
	return paper, chunks, nil
}

// extractCard versions and stores a fresh alpha card for the paper. The
// version number continues from the full card history so demoted versions
// are never reused.
func (p *Pipeline) extractCard(ctx context.Context, tx *store.Tx, paper *types.Paper, chunks []types.PaperChunk) (*types.AlphaCard, error) {
	count, err := tx.CardCount(paper.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.DemoteCards(paper.ID); err != nil {
		return nil, err
	}
	card := p.Extractor.Extract(ctx, paper, chunks, count+1)
	if err := tx.InsertCard(card); err != nil {
		return nil, err
	}
	return card, nil
}
