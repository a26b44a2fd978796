// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/frontier-pulse/internal/inference"
	"github.com/pdiddy/frontier-pulse/internal/secrets"
	"github.com/pdiddy/frontier-pulse/internal/source"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

const defaultUserAgent = "frontier-pulse/0.1"

func init() {
	viper.SetDefault("db_path", "frontier-pulse.db")

	viper.SetDefault("ingestion.timeout", "60s")
	viper.SetDefault("ingestion.user_agent", defaultUserAgent)
	viper.SetDefault("ingestion.sources",
		[]string{"arxiv", "openreview", "frontier_blogs", "reddit", "university_blogs"})
	viper.SetDefault("ingestion.arxiv_categories",
		[]string{"cs.CL", "cs.LG", "stat.ML", "cs.AI"})
	viper.SetDefault("ingestion.openreview_venue", "ICLR.cc/2026/Conference")
	viper.SetDefault("ingestion.default_max_papers", 120)
	viper.SetDefault("ingestion.include_revised_papers", true)
	viper.SetDefault("ingestion.dedupe_strategy", "fuzzy_title_abstract")
	viper.SetDefault("ingestion.pdf_parser_primary", source.ParserLedongthuc)
	viper.SetDefault("ingestion.pdf_parser_fallback", source.ParserRscPDF)
	viper.SetDefault("ingestion.appendix_policy", "main_first_fallback")
	viper.SetDefault("ingestion.chunk_target_tokens", 1200)
	viper.SetDefault("ingestion.chunk_overlap_tokens", 150)
	viper.SetDefault("ingestion.topic_bias_enabled", true)
	viper.SetDefault("ingestion.topic_bias_keywords",
		[]string{"reasoning", "scaling", "inference", "agents", "efficiency"})

	viper.SetDefault("inference.provider", "ollama")
	viper.SetDefault("inference.model", "llama3.1:8b")
	viper.SetDefault("inference.temperature", 0.2)
	viper.SetDefault("inference.ollama_base_url", "http://localhost:11434")
	viper.SetDefault("inference.enable_cloud_fallback", false)
	viper.SetDefault("inference.fallback_provider", "openrouter")
	viper.SetDefault("inference.openrouter_model", "meta-llama/llama-3.1-70b-instruct")
	viper.SetDefault("inference.weekly_budget_usd", 25.0)
	viper.SetDefault("inference.weekly_max_calls", 500)

	viper.SetDefault("project.embedding_model", "nomic-embed-text")
	viper.SetDefault("project.alpha_card_versioning", "immutable_versions")
	viper.SetDefault("project.novelty_score_mode", "keyword_v1")
	viper.SetDefault("project.hypothesis_strength_mode", "group_size_v1")
	viper.SetDefault("project.contradiction_edges_enabled", false)
	viper.SetDefault("project.citation_provenance_required", true)
	viper.SetDefault("project.min_acceptable_precision", 0.7)
	viper.SetDefault("project.redact_export_paths", true)
	viper.SetDefault("project.export_twitter_mode", "classic_thread")
	viper.SetDefault("project.export_linkedin_tone", "build_in_public")
}

// buildConfig materializes the viper state into the typed configuration.
// The OpenRouter key comes only from secrets or the environment, never from
// config files.
func buildConfig() types.Config {
	cfg := types.Config{
		DBPath: viper.GetString("db_path"),
		Ingestion: types.IngestionConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("ingestion.timeout"),
				UserAgent: viper.GetString("ingestion.user_agent"),
			},
			Sources:              viper.GetStringSlice("ingestion.sources"),
			ArxivCategories:      viper.GetStringSlice("ingestion.arxiv_categories"),
			OpenReviewVenue:      viper.GetString("ingestion.openreview_venue"),
			RSSFeeds:             source.DefaultRSSFeeds(),
			DefaultMaxPapers:     viper.GetInt("ingestion.default_max_papers"),
			IncludeRevisedPapers: viper.GetBool("ingestion.include_revised_papers"),
			DedupeStrategy:       viper.GetString("ingestion.dedupe_strategy"),
			PDFParserPrimary:     viper.GetString("ingestion.pdf_parser_primary"),
			PDFParserFallback:    viper.GetString("ingestion.pdf_parser_fallback"),
			AppendixPolicy:       viper.GetString("ingestion.appendix_policy"),
			ChunkTargetTokens:    viper.GetInt("ingestion.chunk_target_tokens"),
			ChunkOverlapTokens:   viper.GetInt("ingestion.chunk_overlap_tokens"),
			TopicBiasEnabled:     viper.GetBool("ingestion.topic_bias_enabled"),
			TopicBiasKeywords:    viper.GetStringSlice("ingestion.topic_bias_keywords"),
		},
		Inference: types.InferenceConfig{
			Provider:            viper.GetString("inference.provider"),
			Model:               viper.GetString("inference.model"),
			Temperature:         viper.GetFloat64("inference.temperature"),
			OllamaBaseURL:       viper.GetString("inference.ollama_base_url"),
			EnableCloudFallback: viper.GetBool("inference.enable_cloud_fallback"),
			FallbackProvider:    viper.GetString("inference.fallback_provider"),
			OpenRouterModel:     viper.GetString("inference.openrouter_model"),
			WeeklyBudgetUSD:     viper.GetFloat64("inference.weekly_budget_usd"),
			WeeklyMaxCalls:      viper.GetInt("inference.weekly_max_calls"),
		},
		Project: types.ProjectConfig{
			EmbeddingModel:             viper.GetString("project.embedding_model"),
			AlphaCardVersioning:        viper.GetString("project.alpha_card_versioning"),
			NoveltyScoreMode:           viper.GetString("project.novelty_score_mode"),
			HypothesisStrengthMode:     viper.GetString("project.hypothesis_strength_mode"),
			ContradictionEdgesEnabled:  viper.GetBool("project.contradiction_edges_enabled"),
			CitationProvenanceRequired: viper.GetBool("project.citation_provenance_required"),
			MinAcceptablePrecision:     viper.GetFloat64("project.min_acceptable_precision"),
			RedactExportPaths:          viper.GetBool("project.redact_export_paths"),
			ExportTwitterMode:          viper.GetString("project.export_twitter_mode"),
			ExportLinkedInTone:         viper.GetString("project.export_linkedin_tone"),
		},
	}

	cfg.Inference.OpenRouterAPIKey = viper.GetString("inference.openrouter_api_key")
	if cfg.Inference.OpenRouterAPIKey == "" {
		cfg.Inference.OpenRouterAPIKey = loadedSecrets[secrets.OpenRouterAPIKey]
	}
	return cfg
}

// buildConnectors wires one connector per configured source tag.
func buildConnectors(cfg types.Config) map[string]source.Connector {
	client := &http.Client{Timeout: cfg.Ingestion.Timeout}
	httpCfg := cfg.Ingestion.HTTPConfig

	connectors := map[string]source.Connector{
		"arxiv": &source.ArxivConnector{
			Client:     client,
			Categories: cfg.Ingestion.ArxivCategories,
			Parsers: source.ParserChain{
				Primary:  cfg.Ingestion.PDFParserPrimary,
				Fallback: cfg.Ingestion.PDFParserFallback,
			},
			HTTP:       httpCfg,
		},
		"openreview": &source.OpenReviewConnector{
			Client: client,
			Venue:  cfg.Ingestion.OpenReviewVenue,
			HTTP:   httpCfg,
		},
	}
	for tag, urls := range cfg.Ingestion.RSSFeeds {
		if len(urls) == 0 {
			continue
		}
		connectors[tag] = source.NewRSSConnector(tag, urls)
	}
	return connectors
}

// buildInference assembles the failover generation client from config.
func buildInference(cfg types.Config, client *http.Client) inference.Client {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	failover := &inference.FailoverClient{
		Primary:  inference.NewOllamaClient(client, cfg.Inference.OllamaBaseURL),
		MaxCalls: cfg.Inference.WeeklyMaxCalls,
	}
	if cfg.Inference.EnableCloudFallback {
		failover.Fallback = inference.NewOpenRouterClient(
			client, "", cfg.Inference.OpenRouterAPIKey, cfg.Inference.OpenRouterModel)
	}
	return failover
}
