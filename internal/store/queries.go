// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

// HypothesisSummary decorates a hypothesis with its evidence counts and the
// strength the CLI should display (the user override wins when set).
type HypothesisSummary struct {
	types.Hypothesis
	SupportCount       int     `json:"support_count" yaml:"support_count"`
	ContradictionCount int     `json:"contradiction_count" yaml:"contradiction_count"`
	DisplayStrength    float64 `json:"display_strength" yaml:"display_strength"`
}

// ClusterSummary decorates a cluster with its member paper count.
type ClusterSummary struct {
	types.Cluster
	PaperCount int `json:"paper_count" yaml:"paper_count"`
}

// ListPapers returns stored papers, newest published first. An empty source
// lists all sources. Full text is omitted; use GetPaper for the body.
func (s *Store) ListPapers(ctx context.Context, source string, limit int) ([]types.Paper, error) {
	query := `SELECT id, source, source_id, arxiv_id, title, authors, published_at,
		updated_at, abstract, source_url FROM papers`
	args := []any{}
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY published_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var (
			p                  types.Paper
			arxivID            sql.NullString
			published, updated sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Source, &p.SourceID, &arxivID, &p.Title,
			&p.Authors, &published, &updated, &p.Abstract, &p.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		p.ArxivID = arxivID.String
		if published.Valid {
			p.PublishedAt = parseTime(published.String)
		}
		p.UpdatedAt = parseNullableTime(updated)
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// GetPaper returns one paper with its full text, or ErrNotFound.
func (s *Store) GetPaper(ctx context.Context, id int64) (*types.Paper, error) {
	var (
		p                  types.Paper
		arxivID            sql.NullString
		published, updated sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, source_id, arxiv_id, title, authors, published_at,
			updated_at, abstract, full_text, source_url FROM papers WHERE id = ?`, id).
		Scan(&p.ID, &p.Source, &p.SourceID, &arxivID, &p.Title, &p.Authors,
			&published, &updated, &p.Abstract, &p.FullText, &p.SourceURL)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("paper %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading paper: %w", err)
	}
	p.ArxivID = arxivID.String
	if published.Valid {
		p.PublishedAt = parseTime(published.String)
	}
	p.UpdatedAt = parseNullableTime(updated)
	return &p, nil
}

// CurrentCard returns the paper's current alpha card, or ErrNotFound when no
// extraction has run for it.
func (s *Store) CurrentCard(ctx context.Context, paperID int64) (*types.AlphaCard, error) {
	row := s.db.QueryRowContext(ctx,
		cardSelect+` WHERE paper_id = ? AND is_current = 1 ORDER BY version_number DESC LIMIT 1`,
		paperID)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("alpha card for paper %d: %w", paperID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading alpha card: %w", err)
	}
	return card, nil
}

const cardSelect = `SELECT id, paper_id, version_number, is_current, bottleneck_attacked,
	mechanism_type, scaling_axis, compute_regime, claimed_improvement, evaluation_risk,
	implicit_assumptions, novelty_bucket, generalization_likelihood, scaling_projection,
	strategic_relevance, short_alpha_summary, provenance_snippets, created_at
	FROM alpha_cards`

func scanCard(row *sql.Row) (*types.AlphaCard, error) {
	var (
		c       types.AlphaCard
		created string
	)
	err := row.Scan(&c.ID, &c.PaperID, &c.VersionNumber, &c.IsCurrent, &c.BottleneckAttacked,
		&c.MechanismType, &c.ScalingAxis, &c.ComputeRegime, &c.ClaimedImprovement,
		&c.EvaluationRisk, &c.ImplicitAssumptions, &c.NoveltyBucket, &c.GeneralizationLikelihood,
		&c.ScalingProjection, &c.StrategicRelevance, &c.ShortAlphaSummary, &c.ProvenanceSnippets,
		&created)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(created)
	return &c, nil
}

// ListCurrentCards returns the current alpha card of every paper that has
// one, newest extraction first.
func (s *Store) ListCurrentCards(ctx context.Context, limit int) ([]types.AlphaCard, error) {
	rows, err := s.db.QueryContext(ctx,
		cardSelect+` WHERE is_current = 1 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing alpha cards: %w", err)
	}
	defer rows.Close()

	var cards []types.AlphaCard
	for rows.Next() {
		var (
			c       types.AlphaCard
			created string
		)
		if err := rows.Scan(&c.ID, &c.PaperID, &c.VersionNumber, &c.IsCurrent,
			&c.BottleneckAttacked, &c.MechanismType, &c.ScalingAxis, &c.ComputeRegime,
			&c.ClaimedImprovement, &c.EvaluationRisk, &c.ImplicitAssumptions, &c.NoveltyBucket,
			&c.GeneralizationLikelihood, &c.ScalingProjection, &c.StrategicRelevance,
			&c.ShortAlphaSummary, &c.ProvenanceSnippets, &created); err != nil {
			return nil, fmt.Errorf("scanning alpha card: %w", err)
		}
		c.CreatedAt = parseTime(created)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ListHypotheses returns the hypotheses of one week (or all weeks when
// weekKey is empty) with their evidence counts and display strength.
func (s *Store) ListHypotheses(ctx context.Context, weekKey string) ([]HypothesisSummary, error) {
	query := `SELECT h.id, h.text, h.type, h.strength_score, h.user_override_strength,
			h.week_introduced, h.created_at,
			COALESCE(SUM(CASE WHEN l.relation = 'support' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN l.relation = 'contradict' THEN 1 ELSE 0 END), 0)
		FROM hypotheses h
		LEFT JOIN hypothesis_paper_links l ON l.hypothesis_id = h.id`
	args := []any{}
	if weekKey != "" {
		query += ` WHERE h.week_introduced = ?`
		args = append(args, weekKey)
	}
	query += ` GROUP BY h.id ORDER BY h.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing hypotheses: %w", err)
	}
	defer rows.Close()

	var out []HypothesisSummary
	for rows.Next() {
		var (
			h        HypothesisSummary
			override sql.NullFloat64
			created  string
		)
		if err := rows.Scan(&h.ID, &h.Text, &h.Type, &h.StrengthScore, &override,
			&h.WeekIntroduced, &created, &h.SupportCount, &h.ContradictionCount); err != nil {
			return nil, fmt.Errorf("scanning hypothesis: %w", err)
		}
		h.CreatedAt = parseTime(created)
		h.DisplayStrength = h.StrengthScore
		if override.Valid {
			v := override.Float64
			h.UserOverrideStrength = &v
			h.DisplayStrength = v
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListClusters returns the clusters of one week (or all weeks when weekKey
// is empty) with member counts.
func (s *Store) ListClusters(ctx context.Context, weekKey string) ([]ClusterSummary, error) {
	query := `SELECT c.id, c.name, c.dominant_bottleneck, c.mechanism_summary, c.week_key,
			c.created_at, COUNT(l.id)
		FROM clusters c
		LEFT JOIN cluster_paper_links l ON l.cluster_id = c.id`
	args := []any{}
	if weekKey != "" {
		query += ` WHERE c.week_key = ?`
		args = append(args, weekKey)
	}
	query += ` GROUP BY c.id ORDER BY c.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clusters: %w", err)
	}
	defer rows.Close()

	var out []ClusterSummary
	for rows.Next() {
		var (
			c       ClusterSummary
			created string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.DominantBottleneck, &c.MechanismSummary,
			&c.WeekKey, &created, &c.PaperCount); err != nil {
			return nil, fmt.Errorf("scanning cluster: %w", err)
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListMemory returns memory entries, newest update first, optionally
// filtered by source week and type.
func (s *Store) ListMemory(ctx context.Context, sourceWeek, memoryType string, limit int) ([]types.MemoryEntry, error) {
	query := `SELECT id, memory_key, memory_type, title, summary, source_week, provenance,
		created_at, updated_at FROM research_memory_entries WHERE 1=1`
	args := []any{}
	if sourceWeek != "" {
		query += ` AND source_week = ?`
		args = append(args, sourceWeek)
	}
	if memoryType != "" {
		query += ` AND memory_type = ?`
		args = append(args, memoryType)
	}
	query += ` ORDER BY updated_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing memory entries: %w", err)
	}
	defer rows.Close()

	var out []types.MemoryEntry
	for rows.Next() {
		var (
			m                types.MemoryEntry
			created, updated string
		)
		if err := rows.Scan(&m.ID, &m.MemoryKey, &m.MemoryType, &m.Title, &m.Summary,
			&m.SourceWeek, &m.Provenance, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning memory entry: %w", err)
		}
		m.CreatedAt = parseTime(created)
		m.UpdatedAt = parseTime(updated)
		out = append(out, m)
	}
	return out, rows.Err()
}

const briefVersionSelect = `SELECT v.id, v.brief_id, b.week_key, v.version_number, v.editor,
	v.markdown, v.created_at
	FROM research_brief_versions v JOIN research_briefs b ON b.id = v.brief_id`

func scanBriefVersion(row *sql.Row) (*types.BriefVersion, error) {
	var (
		v       types.BriefVersion
		created string
	)
	err := row.Scan(&v.ID, &v.BriefID, &v.WeekKey, &v.VersionNumber, &v.Editor,
		&v.Markdown, &created)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = parseTime(created)
	return &v, nil
}

// LatestBriefVersion returns the newest version of the week's brief. An
// empty weekKey selects the most recently written version across all weeks.
func (s *Store) LatestBriefVersion(ctx context.Context, weekKey string) (*types.BriefVersion, error) {
	query := briefVersionSelect
	args := []any{}
	if weekKey != "" {
		query += ` WHERE b.week_key = ?`
		args = append(args, weekKey)
	}
	query += ` ORDER BY v.created_at DESC, v.id DESC LIMIT 1`

	v, err := scanBriefVersion(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brief version: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading brief version: %w", err)
	}
	return v, nil
}

// BriefVersionByID returns one brief version, or ErrNotFound.
func (s *Store) BriefVersionByID(ctx context.Context, id int64) (*types.BriefVersion, error) {
	v, err := scanBriefVersion(s.db.QueryRowContext(ctx,
		briefVersionSelect+` WHERE v.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brief version %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading brief version: %w", err)
	}
	return v, nil
}

// UpdateBrief appends a manually edited version to the week's brief and
// returns it. The week's brief row is created when absent; prior versions
// stay untouched.
func (s *Store) UpdateBrief(ctx context.Context, weekKey, editor, markdown string, now time.Time) (*types.BriefVersion, error) {
	var version *types.BriefVersion
	err := s.WithTx(ctx, func(tx *Tx) error {
		briefID, err := tx.EnsureBrief(weekKey, "frontier-pulse "+weekKey, now)
		if err != nil {
			return err
		}

		maxVersion, err := tx.MaxBriefVersion(briefID)
		if err != nil {
			return err
		}
		v := &types.BriefVersion{
			BriefID:       briefID,
			WeekKey:       weekKey,
			VersionNumber: maxVersion + 1,
			Editor:        editor,
			Markdown:      markdown,
			CreatedAt:     now,
		}
		if err := tx.InsertBriefVersion(v); err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// SaveExportArtifact persists a platform rendering outside a pipeline run.
func (s *Store) SaveExportArtifact(ctx context.Context, a *types.ExportArtifact) error {
	return s.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertExportArtifact(a)
	})
}

// GetRun returns one ingestion run, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*types.IngestionRun, error) {
	var (
		r                  types.IngestionRun
		started, completed sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, completed_at, source_scope, total_items, notes
		 FROM ingestion_runs WHERE id = ?`, id).
		Scan(&r.ID, &started, &completed, &r.SourceScope, &r.TotalItems, &r.Notes)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading run: %w", err)
	}
	if started.Valid {
		r.StartedAt = parseTime(started.String)
	}
	r.CompletedAt = parseNullableTime(completed)
	return &r, nil
}

func scanHypotheses(rows *sql.Rows) ([]types.Hypothesis, error) {
	var out []types.Hypothesis
	for rows.Next() {
		var (
			h        types.Hypothesis
			override sql.NullFloat64
			created  string
		)
		if err := rows.Scan(&h.ID, &h.Text, &h.Type, &h.StrengthScore, &override,
			&h.WeekIntroduced, &created); err != nil {
			return nil, fmt.Errorf("scanning hypothesis: %w", err)
		}
		if override.Valid {
			v := override.Float64
			h.UserOverrideStrength = &v
		}
		h.CreatedAt = parseTime(created)
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanClusters(rows *sql.Rows) ([]types.Cluster, error) {
	var out []types.Cluster
	for rows.Next() {
		var (
			c       types.Cluster
			created string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.DominantBottleneck, &c.MechanismSummary,
			&c.WeekKey, &created); err != nil {
			return nil, fmt.Errorf("scanning cluster: %w", err)
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}
