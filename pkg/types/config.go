// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "frontier-pulse/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestionConfig holds settings for source fetching, deduplication, and chunking.
type IngestionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Sources lists the enabled source tags
	// (arxiv, openreview, frontier_blogs, reddit, university_blogs, x_threads).
	Sources []string `json:"sources" yaml:"sources"`

	// ArxivCategories are the arXiv category codes queried (e.g. cs.CL, cs.LG).
	ArxivCategories []string `json:"arxiv_categories" yaml:"arxiv_categories"`

	// OpenReviewVenue is the venue identifier used by the OpenReview connector.
	OpenReviewVenue string `json:"openreview_venue" yaml:"openreview_venue"`

	// RSSFeeds maps a source tag to its feed URL list.
	RSSFeeds map[string][]string `json:"rss_feeds" yaml:"rss_feeds"`

	// DefaultMaxPapers bounds a run when the request does not (default 120).
	DefaultMaxPapers int `json:"default_max_papers" yaml:"default_max_papers"`

	// IncludeRevisedPapers keeps revised versions eligible for ingestion.
	IncludeRevisedPapers bool `json:"include_revised_papers" yaml:"include_revised_papers"`

	// DedupeStrategy selects duplicate detection: "exact" or
	// "fuzzy_title_abstract" (default).
	DedupeStrategy string `json:"dedupe_strategy" yaml:"dedupe_strategy"`

	// PDFParserPrimary and PDFParserFallback name the text extraction chain
	// ("ledongthuc", "rscpdf").
	PDFParserPrimary  string `json:"pdf_parser_primary" yaml:"pdf_parser_primary"`
	PDFParserFallback string `json:"pdf_parser_fallback" yaml:"pdf_parser_fallback"`

	// AppendixPolicy controls reference-tail stripping before storage.
	// "main_first_fallback" strips references/appendix tails.
	AppendixPolicy string `json:"appendix_policy" yaml:"appendix_policy"`

	// ChunkTargetTokens and ChunkOverlapTokens size the sliding window
	// (defaults 1200 / 150).
	ChunkTargetTokens  int `json:"chunk_target_tokens" yaml:"chunk_target_tokens"`
	ChunkOverlapTokens int `json:"chunk_overlap_tokens" yaml:"chunk_overlap_tokens"`

	// TopicBiasEnabled turns on keyword prioritization of fetched documents.
	TopicBiasEnabled bool `json:"topic_bias_enabled" yaml:"topic_bias_enabled"`

	// TopicBiasKeywords are the keywords counted by the prioritizer.
	TopicBiasKeywords []string `json:"topic_bias_keywords" yaml:"topic_bias_keywords"`
}

// InferenceConfig holds settings for the failover text-generation client.
type InferenceConfig struct {
	// Provider names the primary provider (default "ollama").
	Provider string `json:"provider" yaml:"provider"`

	// Model is the primary model identifier (e.g. "llama3.1:8b").
	Model string `json:"model" yaml:"model"`

	// Temperature is the sampling temperature for enrichment calls.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// OllamaBaseURL is the local inference endpoint.
	OllamaBaseURL string `json:"ollama_base_url" yaml:"ollama_base_url"`

	// EnableCloudFallback routes failed primary calls to the cloud provider.
	EnableCloudFallback bool `json:"enable_cloud_fallback" yaml:"enable_cloud_fallback"`

	// FallbackProvider names the cloud provider ("openrouter").
	FallbackProvider string `json:"fallback_provider" yaml:"fallback_provider"`

	// OpenRouterModel is the model requested from the cloud fallback.
	OpenRouterModel string `json:"openrouter_model" yaml:"openrouter_model"`

	// OpenRouterAPIKey authenticates cloud fallback calls. Required when
	// EnableCloudFallback is set; loaded from secrets, never from config files.
	OpenRouterAPIKey string `json:"-" yaml:"-"`

	// WeeklyBudgetUSD is the advisory weekly spend ceiling. Not enforced.
	WeeklyBudgetUSD float64 `json:"weekly_budget_usd" yaml:"weekly_budget_usd"`

	// WeeklyMaxCalls caps generate calls per client lifetime when > 0.
	WeeklyMaxCalls int `json:"weekly_max_calls" yaml:"weekly_max_calls"`
}

// ProjectConfig holds the flat toggle set governing derived-data policy.
type ProjectConfig struct {
	// EmbeddingModel names the intended embedding model. The current
	// embedder is a deterministic placeholder; this records the target.
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// AlphaCardVersioning selects the card history mode ("immutable_versions").
	AlphaCardVersioning string `json:"alpha_card_versioning" yaml:"alpha_card_versioning"`

	// NoveltyScoreMode selects novelty bucketing ("keyword_v1").
	NoveltyScoreMode string `json:"novelty_score_mode" yaml:"novelty_score_mode"`

	// HypothesisStrengthMode selects the strength formula ("group_size_v1").
	HypothesisStrengthMode string `json:"hypothesis_strength_mode" yaml:"hypothesis_strength_mode"`

	// ContradictionEdgesEnabled reserves the contradict relation for future use.
	ContradictionEdgesEnabled bool `json:"contradiction_edges_enabled" yaml:"contradiction_edges_enabled"`

	// CitationProvenanceRequired gates the strategic-flag rendered in briefs.
	CitationProvenanceRequired bool `json:"citation_provenance_required" yaml:"citation_provenance_required"`

	// MinAcceptablePrecision is the editorial quality gate target.
	MinAcceptablePrecision float64 `json:"min_acceptable_precision" yaml:"min_acceptable_precision"`

	// RedactExportPaths rewrites absolute filesystem path prefixes in exports.
	RedactExportPaths bool `json:"redact_export_paths" yaml:"redact_export_paths"`

	// ExportTwitterMode selects the thread format ("classic_thread").
	ExportTwitterMode string `json:"export_twitter_mode" yaml:"export_twitter_mode"`

	// ExportLinkedInTone selects the LinkedIn voice ("build_in_public").
	ExportLinkedInTone string `json:"export_linkedin_tone" yaml:"export_linkedin_tone"`
}

// Config bundles the full pipeline configuration.
type Config struct {
	Ingestion IngestionConfig `json:"ingestion" yaml:"ingestion"`
	Inference InferenceConfig `json:"inference" yaml:"inference"`
	Project   ProjectConfig   `json:"project" yaml:"project"`

	// DBPath locates the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// IngestionPolicy is the read-only reflection of IngestionConfig exposed to
// callers. It mirrors configuration, not behavior.
type IngestionPolicy struct {
	Sources              []string `json:"sources" yaml:"sources"`
	ArxivCategories      []string `json:"arxiv_categories" yaml:"arxiv_categories"`
	IncludeRevisedPapers bool     `json:"include_revised_papers" yaml:"include_revised_papers"`
	DedupeStrategy       string   `json:"dedupe_strategy" yaml:"dedupe_strategy"`
	MaxPapersPolicy      string   `json:"max_papers_policy" yaml:"max_papers_policy"`
	PDFParserPrimary     string   `json:"pdf_parser_primary" yaml:"pdf_parser_primary"`
	PDFParserFallback    string   `json:"pdf_parser_fallback" yaml:"pdf_parser_fallback"`
	AppendixPolicy       string   `json:"appendix_policy" yaml:"appendix_policy"`
	ChunkTargetTokens    int      `json:"chunk_target_tokens" yaml:"chunk_target_tokens"`
	ChunkOverlapTokens   int      `json:"chunk_overlap_tokens" yaml:"chunk_overlap_tokens"`
	TopicBiasEnabled     bool     `json:"topic_bias_enabled" yaml:"topic_bias_enabled"`
	TopicBiasKeywords    []string `json:"topic_bias_keywords" yaml:"topic_bias_keywords"`
}

// InferencePolicy is the read-only reflection of InferenceConfig.
type InferencePolicy struct {
	Provider            string  `json:"provider" yaml:"provider"`
	Model               string  `json:"model" yaml:"model"`
	Temperature         float64 `json:"temperature" yaml:"temperature"`
	EnableCloudFallback bool    `json:"enable_cloud_fallback" yaml:"enable_cloud_fallback"`
	FallbackProvider    string  `json:"fallback_provider" yaml:"fallback_provider"`
	OpenRouterModel     string  `json:"openrouter_model" yaml:"openrouter_model"`
	WeeklyBudgetUSD     float64 `json:"weekly_budget_usd" yaml:"weekly_budget_usd"`
	WeeklyMaxCalls      int     `json:"weekly_max_calls" yaml:"weekly_max_calls"`
}

// ProjectPolicy is the read-only reflection of ProjectConfig.
type ProjectPolicy struct {
	EmbeddingModel             string  `json:"embedding_model" yaml:"embedding_model"`
	AlphaCardVersioning        string  `json:"alpha_card_versioning" yaml:"alpha_card_versioning"`
	NoveltyScoreMode           string  `json:"novelty_score_mode" yaml:"novelty_score_mode"`
	HypothesisStrengthMode     string  `json:"hypothesis_strength_mode" yaml:"hypothesis_strength_mode"`
	ContradictionEdgesEnabled  bool    `json:"contradiction_edges_enabled" yaml:"contradiction_edges_enabled"`
	CitationProvenanceRequired bool    `json:"citation_provenance_required" yaml:"citation_provenance_required"`
	MinAcceptablePrecision     float64 `json:"min_acceptable_precision" yaml:"min_acceptable_precision"`
	RedactExportPaths          bool    `json:"redact_export_paths" yaml:"redact_export_paths"`
	ExportTwitterMode          string  `json:"export_twitter_mode" yaml:"export_twitter_mode"`
	ExportLinkedInTone         string  `json:"export_linkedin_tone" yaml:"export_linkedin_tone"`
}

// IngestionPolicyOf reflects cfg into its exposed policy view.
func IngestionPolicyOf(cfg IngestionConfig) IngestionPolicy {
	maxPolicy := "bounded"
	if cfg.DefaultMaxPapers == 0 {
		maxPolicy = "uncapped"
	}
	return IngestionPolicy{
		Sources:              cfg.Sources,
		ArxivCategories:      cfg.ArxivCategories,
		IncludeRevisedPapers: cfg.IncludeRevisedPapers,
		DedupeStrategy:       cfg.DedupeStrategy,
		MaxPapersPolicy:      maxPolicy,
		PDFParserPrimary:     cfg.PDFParserPrimary,
		PDFParserFallback:    cfg.PDFParserFallback,
		AppendixPolicy:       cfg.AppendixPolicy,
		ChunkTargetTokens:    cfg.ChunkTargetTokens,
		ChunkOverlapTokens:   cfg.ChunkOverlapTokens,
		TopicBiasEnabled:     cfg.TopicBiasEnabled,
		TopicBiasKeywords:    cfg.TopicBiasKeywords,
	}
}

// InferencePolicyOf reflects cfg into its exposed policy view. The API key
// is deliberately absent.
func InferencePolicyOf(cfg InferenceConfig) InferencePolicy {
	return InferencePolicy{
		Provider:            cfg.Provider,
		Model:               cfg.Model,
		Temperature:         cfg.Temperature,
		EnableCloudFallback: cfg.EnableCloudFallback,
		FallbackProvider:    cfg.FallbackProvider,
		OpenRouterModel:     cfg.OpenRouterModel,
		WeeklyBudgetUSD:     cfg.WeeklyBudgetUSD,
		WeeklyMaxCalls:      cfg.WeeklyMaxCalls,
	}
}

// ProjectPolicyOf reflects cfg into its exposed policy view.
func ProjectPolicyOf(cfg ProjectConfig) ProjectPolicy {
	return ProjectPolicy{
		EmbeddingModel:             cfg.EmbeddingModel,
		AlphaCardVersioning:        cfg.AlphaCardVersioning,
		NoveltyScoreMode:           cfg.NoveltyScoreMode,
		HypothesisStrengthMode:     cfg.HypothesisStrengthMode,
		ContradictionEdgesEnabled:  cfg.ContradictionEdgesEnabled,
		CitationProvenanceRequired: cfg.CitationProvenanceRequired,
		MinAcceptablePrecision:     cfg.MinAcceptablePrecision,
		RedactExportPaths:          cfg.RedactExportPaths,
		ExportTwitterMode:          cfg.ExportTwitterMode,
		ExportLinkedInTone:         cfg.ExportLinkedInTone,
	}
}
