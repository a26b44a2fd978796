// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

// CreateRun records the start of a pipeline invocation.
func (t *Tx) CreateRun(run *types.IngestionRun) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO ingestion_runs (id, started_at, completed_at, source_scope, total_items, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatNullableTime(run.CompletedAt),
		run.SourceScope, run.TotalItems, run.Notes)
	if err != nil {
		return fmt.Errorf("inserting ingestion run: %w", err)
	}
	return nil
}

// CompleteRun stamps the run's completion and its final counters.
func (t *Tx) CompleteRun(runID string, totalItems int, notes string, completedAt time.Time) error {
	_, err := t.tx.ExecContext(t.ctx,
		`UPDATE ingestion_runs SET completed_at = ?, total_items = ?, notes = ? WHERE id = ?`,
		formatTime(completedAt), totalItems, notes, runID)
	if err != nil {
		return fmt.Errorf("completing ingestion run: %w", err)
	}
	return nil
}

// PaperExistsBySourceID reports whether a paper with the given source
// identifier is already stored.
func (t *Tx) PaperExistsBySourceID(sourceID string) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT COUNT(*) FROM papers WHERE source_id = ?`, sourceID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking paper by source id: %w", err)
	}
	return n > 0, nil
}

// PaperExistsFuzzy reports whether any stored paper shares the same title
// prefix (120 chars) and abstract prefix (160 chars), both case-insensitive.
// Used by the fuzzy dedupe strategy.
func (t *Tx) PaperExistsFuzzy(title, abstract string) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT COUNT(*) FROM papers
		  WHERE lower(substr(title, 1, 120)) = lower(substr(?, 1, 120))
		    AND lower(substr(abstract, 1, 160)) = lower(substr(?, 1, 160))`,
		title, abstract).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking paper by title/abstract prefix: %w", err)
	}
	return n > 0, nil
}

// InsertPaper stores a paper and sets its assigned ID.
func (t *Tx) InsertPaper(p *types.Paper) error {
	emb, err := marshalEmbedding(p.Embedding)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO papers (source, source_id, arxiv_id, title, authors, published_at,
			updated_at, abstract, full_text, source_url, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Source, p.SourceID, p.ArxivID, p.Title, p.Authors, formatTime(p.PublishedAt),
		formatNullableTime(p.UpdatedAt), p.Abstract, p.FullText, p.SourceURL, emb)
	if err != nil {
		return fmt.Errorf("inserting paper: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading paper id: %w", err)
	}
	return nil
}

// InsertChunk stores one chunk and sets its assigned ID.
func (t *Tx) InsertChunk(c *types.PaperChunk) error {
	emb, err := marshalEmbedding(c.Embedding)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO paper_chunks (paper_id, section_name, chunk_index, text, estimated_tokens, embedding)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.PaperID, c.SectionName, c.ChunkIndex, c.Text, c.EstimatedTokens, emb)
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading chunk id: %w", err)
	}
	return nil
}

// CardCount returns how many alpha cards (current or demoted) exist for the
// paper. The next extraction's version number is this count plus one.
func (t *Tx) CardCount(paperID int64) (int, error) {
	var n int
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT COUNT(*) FROM alpha_cards WHERE paper_id = ?`, paperID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting alpha cards: %w", err)
	}
	return n, nil
}

// DemoteCards clears the is_current flag on every card of the paper.
func (t *Tx) DemoteCards(paperID int64) error {
	_, err := t.tx.ExecContext(t.ctx,
		`UPDATE alpha_cards SET is_current = 0 WHERE paper_id = ?`, paperID)
	if err != nil {
		return fmt.Errorf("demoting alpha cards: %w", err)
	}
	return nil
}

// InsertCard stores an alpha card and sets its assigned ID.
func (t *Tx) InsertCard(c *types.AlphaCard) error {
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO alpha_cards (paper_id, version_number, is_current, bottleneck_attacked,
			mechanism_type, scaling_axis, compute_regime, claimed_improvement, evaluation_risk,
			implicit_assumptions, novelty_bucket, generalization_likelihood, scaling_projection,
			strategic_relevance, short_alpha_summary, provenance_snippets, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.PaperID, c.VersionNumber, c.IsCurrent, c.BottleneckAttacked, c.MechanismType,
		c.ScalingAxis, c.ComputeRegime, c.ClaimedImprovement, c.EvaluationRisk,
		c.ImplicitAssumptions, c.NoveltyBucket, c.GeneralizationLikelihood, c.ScalingProjection,
		c.StrategicRelevance, c.ShortAlphaSummary, c.ProvenanceSnippets, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting alpha card: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading alpha card id: %w", err)
	}
	return nil
}

// InsertHypothesis stores a hypothesis and sets its assigned ID.
func (t *Tx) InsertHypothesis(h *types.Hypothesis) error {
	var override any
	if h.UserOverrideStrength != nil {
		override = *h.UserOverrideStrength
	}
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO hypotheses (text, type, strength_score, user_override_strength, week_introduced, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		h.Text, h.Type, h.StrengthScore, override, h.WeekIntroduced, formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting hypothesis: %w", err)
	}
	h.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading hypothesis id: %w", err)
	}
	return nil
}

// InsertHypothesisLink stores a hypothesis-paper evidence link.
func (t *Tx) InsertHypothesisLink(l *types.HypothesisPaperLink) error {
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO hypothesis_paper_links (hypothesis_id, paper_id, relation, confidence, provenance)
		 VALUES (?, ?, ?, ?, ?)`,
		l.HypothesisID, l.PaperID, l.Relation, l.Confidence, l.Provenance)
	if err != nil {
		return fmt.Errorf("inserting hypothesis link: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading hypothesis link id: %w", err)
	}
	return nil
}

// InsertCluster stores a cluster and sets its assigned ID.
func (t *Tx) InsertCluster(c *types.Cluster) error {
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO clusters (name, dominant_bottleneck, mechanism_summary, week_key, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.DominantBottleneck, c.MechanismSummary, c.WeekKey, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting cluster: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading cluster id: %w", err)
	}
	return nil
}

// InsertClusterLink ties a paper to a cluster.
func (t *Tx) InsertClusterLink(clusterID, paperID int64) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO cluster_paper_links (cluster_id, paper_id) VALUES (?, ?)`,
		clusterID, paperID)
	if err != nil {
		return fmt.Errorf("inserting cluster link: %w", err)
	}
	return nil
}

// EnsureBrief returns the brief id for the week, creating the brief row on
// first use and touching updated_at on reuse.
func (t *Tx) EnsureBrief(weekKey, title string, now time.Time) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT id FROM research_briefs WHERE week_key = ?`, weekKey).Scan(&id)
	switch {
	case err == nil:
		if _, err := t.tx.ExecContext(t.ctx,
			`UPDATE research_briefs SET updated_at = ? WHERE id = ?`,
			formatTime(now), id); err != nil {
			return 0, fmt.Errorf("touching brief: %w", err)
		}
		return id, nil
	case err != sql.ErrNoRows:
		return 0, fmt.Errorf("looking up brief: %w", err)
	}

	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO research_briefs (week_key, title, status, created_at, updated_at)
		 VALUES (?, ?, 'draft', ?, ?)`,
		weekKey, title, formatTime(now), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("inserting brief: %w", err)
	}
	return res.LastInsertId()
}

// MaxBriefVersion returns the highest version number stored for the brief,
// or zero when the brief has no versions yet.
func (t *Tx) MaxBriefVersion(briefID int64) (int, error) {
	var v sql.NullInt64
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT MAX(version_number) FROM research_brief_versions WHERE brief_id = ?`,
		briefID).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("reading max brief version: %w", err)
	}
	return int(v.Int64), nil
}

// InsertBriefVersion stores one immutable brief rendering.
func (t *Tx) InsertBriefVersion(v *types.BriefVersion) error {
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO research_brief_versions (brief_id, version_number, editor, markdown, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		v.BriefID, v.VersionNumber, v.Editor, v.Markdown, formatTime(v.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting brief version: %w", err)
	}
	v.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading brief version id: %w", err)
	}
	return nil
}

// UpsertMemory inserts the entry or, when its memory key already exists,
// refreshes the mutable fields in place. Re-running a week never duplicates
// memory rows.
func (t *Tx) UpsertMemory(m *types.MemoryEntry) error {
	emb, err := marshalEmbedding(m.Embedding)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx,
		`INSERT INTO research_memory_entries
			(memory_key, memory_type, title, summary, source_week, provenance, embedding, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(memory_key) DO UPDATE SET
			memory_type = excluded.memory_type,
			title = excluded.title,
			summary = excluded.summary,
			source_week = excluded.source_week,
			provenance = excluded.provenance,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at`,
		m.MemoryKey, m.MemoryType, m.Title, m.Summary, m.SourceWeek, m.Provenance,
		emb, formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting memory entry: %w", err)
	}
	return nil
}

// RecentBriefWeeks returns up to limit distinct week keys that already have
// briefs, newest first.
func (t *Tx) RecentBriefWeeks(limit int) ([]string, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT week_key FROM research_briefs ORDER BY week_key DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing brief weeks: %w", err)
	}
	defer rows.Close()

	var weeks []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scanning brief week: %w", err)
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

// HypothesesByWeeks returns every hypothesis introduced in any of the given
// weeks, oldest first.
func (t *Tx) HypothesesByWeeks(weeks []string) ([]types.Hypothesis, error) {
	if len(weeks) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, text, type, strength_score, user_override_strength, week_introduced, created_at
		 FROM hypotheses WHERE week_introduced IN (%s) ORDER BY id`,
		placeholders(len(weeks)))
	rows, err := t.tx.QueryContext(t.ctx, query, asAny(weeks)...)
	if err != nil {
		return nil, fmt.Errorf("listing hypotheses by week: %w", err)
	}
	defer rows.Close()
	return scanHypotheses(rows)
}

// ClustersByWeeks returns every cluster created in any of the given weeks,
// oldest first.
func (t *Tx) ClustersByWeeks(weeks []string) ([]types.Cluster, error) {
	if len(weeks) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, name, dominant_bottleneck, mechanism_summary, week_key, created_at
		 FROM clusters WHERE week_key IN (%s) ORDER BY id`,
		placeholders(len(weeks)))
	rows, err := t.tx.QueryContext(t.ctx, query, asAny(weeks)...)
	if err != nil {
		return nil, fmt.Errorf("listing clusters by week: %w", err)
	}
	defer rows.Close()
	return scanClusters(rows)
}

// InsertExportArtifact stores a platform-specific rendering of a brief version.
func (t *Tx) InsertExportArtifact(a *types.ExportArtifact) error {
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO export_artifacts (brief_version_id, platform, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		a.BriefVersionID, a.Platform, a.Content, formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting export artifact: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading export artifact id: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func asAny(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
