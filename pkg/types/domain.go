// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures passed between pipeline
// stages: source documents, persisted papers and their derived artifacts,
// and the request/result shapes of the weekly synthesis run.
package types

import "time"

// Document is the normalized output of a source connector. It is ephemeral:
// the storage stage decides whether it becomes a Paper.
type Document struct {
	Source      string     `json:"source" yaml:"source"`
	SourceID    string     `json:"source_id" yaml:"source_id"`
	ArxivID     string     `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	Title       string     `json:"title" yaml:"title"`
	Authors     string     `json:"authors" yaml:"authors"`
	Abstract    string     `json:"abstract" yaml:"abstract"`
	FullText    string     `json:"full_text" yaml:"full_text"`
	PublishedAt time.Time  `json:"published_at" yaml:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	SourceURL   string     `json:"source_url" yaml:"source_url"`
}

// Paper is a deduplicated, persisted document. Unique on SourceID.
type Paper struct {
	ID          int64      `json:"id" yaml:"id"`
	Source      string     `json:"source" yaml:"source"`
	SourceID    string     `json:"source_id" yaml:"source_id"`
	ArxivID     string     `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	Title       string     `json:"title" yaml:"title"`
	Authors     string     `json:"authors" yaml:"authors"`
	PublishedAt time.Time  `json:"published_at" yaml:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Abstract    string     `json:"abstract" yaml:"abstract"`
	FullText    string     `json:"full_text" yaml:"full_text"`
	SourceURL   string     `json:"source_url" yaml:"source_url"`
	Embedding   []float64  `json:"-" yaml:"-"`
}

// PaperChunk is one sliding-window slice of a paper's full text.
// Unique per (PaperID, ChunkIndex).
type PaperChunk struct {
	ID              int64     `json:"id" yaml:"id"`
	PaperID         int64     `json:"paper_id" yaml:"paper_id"`
	SectionName     string    `json:"section_name" yaml:"section_name"`
	ChunkIndex      int       `json:"chunk_index" yaml:"chunk_index"`
	Text            string    `json:"text" yaml:"text"`
	EstimatedTokens int       `json:"estimated_tokens" yaml:"estimated_tokens"`
	Embedding       []float64 `json:"-" yaml:"-"`
}

// AlphaCard is a versioned structured extraction for one paper. Each new
// extraction demotes all prior cards; at most one card per paper carries
// IsCurrent at any time.
type AlphaCard struct {
	ID                       int64     `json:"id" yaml:"id"`
	PaperID                  int64     `json:"paper_id" yaml:"paper_id"`
	VersionNumber            int       `json:"version_number" yaml:"version_number"`
	IsCurrent                bool      `json:"is_current" yaml:"is_current"`
	BottleneckAttacked       string    `json:"bottleneck_attacked" yaml:"bottleneck_attacked"`
	MechanismType            string    `json:"mechanism_type" yaml:"mechanism_type"`
	ScalingAxis              string    `json:"scaling_axis" yaml:"scaling_axis"`
	ComputeRegime            string    `json:"compute_regime" yaml:"compute_regime"`
	ClaimedImprovement       string    `json:"claimed_improvement" yaml:"claimed_improvement"`
	EvaluationRisk           string    `json:"evaluation_risk" yaml:"evaluation_risk"`
	ImplicitAssumptions      string    `json:"implicit_assumptions" yaml:"implicit_assumptions"`
	NoveltyBucket            string    `json:"novelty_bucket" yaml:"novelty_bucket"`
	GeneralizationLikelihood string    `json:"generalization_likelihood" yaml:"generalization_likelihood"`
	ScalingProjection        string    `json:"scaling_projection" yaml:"scaling_projection"`
	StrategicRelevance       string    `json:"strategic_relevance" yaml:"strategic_relevance"`
	ShortAlphaSummary        string    `json:"short_alpha_summary" yaml:"short_alpha_summary"`
	ProvenanceSnippets       string    `json:"provenance_snippets" yaml:"provenance_snippets"`
	CreatedAt                time.Time `json:"created_at" yaml:"created_at"`
}

// Hypothesis is a cross-paper claim synthesized within one week.
// UserOverrideStrength, when set, wins over StrengthScore for display.
type Hypothesis struct {
	ID                   int64     `json:"id" yaml:"id"`
	Text                 string    `json:"text" yaml:"text"`
	Type                 string    `json:"type" yaml:"type"`
	StrengthScore        float64   `json:"strength_score" yaml:"strength_score"`
	UserOverrideStrength *float64  `json:"user_override_strength,omitempty" yaml:"user_override_strength,omitempty"`
	WeekIntroduced       string    `json:"week_introduced" yaml:"week_introduced"`
	CreatedAt            time.Time `json:"created_at" yaml:"created_at"`
}

// HypothesisPaperLink ties a hypothesis to a supporting or contradicting paper.
type HypothesisPaperLink struct {
	ID           int64   `json:"id" yaml:"id"`
	HypothesisID int64   `json:"hypothesis_id" yaml:"hypothesis_id"`
	PaperID      int64   `json:"paper_id" yaml:"paper_id"`
	Relation     string  `json:"relation" yaml:"relation"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`
	Provenance   string  `json:"provenance" yaml:"provenance"`
}

// Cluster groups the week's papers sharing a dominant bottleneck.
type Cluster struct {
	ID                 int64     `json:"id" yaml:"id"`
	Name               string    `json:"name" yaml:"name"`
	DominantBottleneck string    `json:"dominant_bottleneck" yaml:"dominant_bottleneck"`
	MechanismSummary   string    `json:"mechanism_summary" yaml:"mechanism_summary"`
	WeekKey            string    `json:"week_key" yaml:"week_key"`
	CreatedAt          time.Time `json:"created_at" yaml:"created_at"`
}

// MemoryEntry is a durable long-horizon fact, upserted by MemoryKey.
type MemoryEntry struct {
	ID         int64     `json:"id" yaml:"id"`
	MemoryKey  string    `json:"memory_key" yaml:"memory_key"`
	MemoryType string    `json:"memory_type" yaml:"memory_type"`
	Title      string    `json:"title" yaml:"title"`
	Summary    string    `json:"summary" yaml:"summary"`
	SourceWeek string    `json:"source_week" yaml:"source_week"`
	Provenance string    `json:"provenance" yaml:"provenance"`
	Embedding  []float64 `json:"-" yaml:"-"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// Brief is the weekly report container. Unique on WeekKey; content lives in
// append-only BriefVersions.
type Brief struct {
	ID        int64     `json:"id" yaml:"id"`
	WeekKey   string    `json:"week_key" yaml:"week_key"`
	Title     string    `json:"title" yaml:"title"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// BriefVersion is one immutable rendering of a brief.
type BriefVersion struct {
	ID            int64     `json:"id" yaml:"id"`
	BriefID       int64     `json:"brief_id" yaml:"brief_id"`
	WeekKey       string    `json:"week_key" yaml:"week_key"`
	VersionNumber int       `json:"version_number" yaml:"version_number"`
	Editor        string    `json:"editor" yaml:"editor"`
	Markdown      string    `json:"markdown" yaml:"markdown"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// IngestionRun is the audit record of one pipeline invocation.
type IngestionRun struct {
	ID          string     `json:"id" yaml:"id"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	SourceScope string     `json:"source_scope" yaml:"source_scope"`
	TotalItems  int        `json:"total_items" yaml:"total_items"`
	Notes       string     `json:"notes" yaml:"notes"`
}

// ExportArtifact is a persisted platform-specific rendering of a brief version.
type ExportArtifact struct {
	ID             int64     `json:"id" yaml:"id"`
	BriefVersionID int64     `json:"brief_version_id" yaml:"brief_version_id"`
	Platform       string    `json:"platform" yaml:"platform"`
	Content        string    `json:"content" yaml:"content"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// RunRequest parameterizes one weekly synthesis invocation.
type RunRequest struct {
	// MaxPapers caps how many prioritized documents are ingested.
	// Zero or negative selects the configured default (120).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// Sources restricts the run to the named source tags. Empty means the
	// configured source list.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// IncludeRevised keeps revised versions of already-seen papers eligible.
	IncludeRevised bool `json:"include_revised" yaml:"include_revised"`
}

// RunResult summarizes a completed weekly synthesis run.
type RunResult struct {
	Status       string `json:"status" yaml:"status"`
	RunID        string `json:"run_id" yaml:"run_id"`
	Ingested     int    `json:"ingested_papers" yaml:"ingested_papers"`
	Cards        int    `json:"extracted_alpha_cards" yaml:"extracted_alpha_cards"`
	Hypotheses   int    `json:"synthesized_hypotheses" yaml:"synthesized_hypotheses"`
	Clusters     int    `json:"generated_clusters" yaml:"generated_clusters"`
	BriefVersion int    `json:"brief_version" yaml:"brief_version"`
	Notes        string `json:"notes" yaml:"notes"`
}

// QAItem is one entry of the editorial checklist derived from the latest brief.
type QAItem struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Required bool   `json:"required" yaml:"required"`
	Passed   bool   `json:"passed" yaml:"passed"`
}
