// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the weekly synthesis entities in SQLite and
// exposes the single unit-of-work transaction the orchestrator commits
// at the end of a run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is the client-visible not-found condition for lookups by id
// or week key.
var ErrNotFound = errors.New("not found")

// Store manages the frontier-pulse SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at dbPath and creates the
// schema if it does not exist.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ingestion_runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			source_scope TEXT NOT NULL DEFAULT '',
			total_items INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL DEFAULT 'arxiv',
			source_id TEXT NOT NULL UNIQUE,
			arxiv_id TEXT,
			title TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '',
			published_at TEXT NOT NULL,
			updated_at TEXT,
			abstract TEXT NOT NULL DEFAULT '',
			full_text TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			embedding TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_source ON papers(source)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_published_at ON papers(published_at)`,
		`CREATE TABLE IF NOT EXISTS paper_chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			section_name TEXT NOT NULL DEFAULT 'unknown',
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			estimated_tokens INTEGER NOT NULL DEFAULT 0,
			embedding TEXT,
			UNIQUE(paper_id, chunk_index)
		)`,
		`CREATE TABLE IF NOT EXISTS alpha_cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			version_number INTEGER NOT NULL DEFAULT 1,
			is_current INTEGER NOT NULL DEFAULT 1,
			bottleneck_attacked TEXT NOT NULL DEFAULT 'unknown',
			mechanism_type TEXT NOT NULL DEFAULT 'unknown',
			scaling_axis TEXT NOT NULL DEFAULT 'unknown',
			compute_regime TEXT NOT NULL DEFAULT 'unknown',
			claimed_improvement TEXT NOT NULL DEFAULT '',
			evaluation_risk TEXT NOT NULL DEFAULT '',
			implicit_assumptions TEXT NOT NULL DEFAULT '',
			novelty_bucket TEXT NOT NULL DEFAULT 'medium',
			generalization_likelihood TEXT NOT NULL DEFAULT 'medium',
			scaling_projection TEXT NOT NULL DEFAULT '',
			strategic_relevance TEXT NOT NULL DEFAULT '',
			short_alpha_summary TEXT NOT NULL DEFAULT '',
			provenance_snippets TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alpha_cards_paper ON alpha_cards(paper_id)`,
		`CREATE TABLE IF NOT EXISTS hypotheses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			type TEXT NOT NULL,
			strength_score REAL NOT NULL DEFAULT 0,
			user_override_strength REAL,
			week_introduced TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hypotheses_week ON hypotheses(week_introduced)`,
		`CREATE TABLE IF NOT EXISTS hypothesis_paper_links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hypothesis_id INTEGER NOT NULL REFERENCES hypotheses(id) ON DELETE CASCADE,
			paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			relation TEXT NOT NULL,
			confidence REAL NOT NULL DEFAULT 0.5,
			provenance TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS clusters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			dominant_bottleneck TEXT NOT NULL DEFAULT 'unknown',
			mechanism_summary TEXT NOT NULL DEFAULT '',
			week_key TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clusters_week ON clusters(week_key)`,
		`CREATE TABLE IF NOT EXISTS cluster_paper_links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cluster_id INTEGER NOT NULL REFERENCES clusters(id) ON DELETE CASCADE,
			paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS research_briefs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			week_key TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS research_brief_versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			brief_id INTEGER NOT NULL REFERENCES research_briefs(id) ON DELETE CASCADE,
			version_number INTEGER NOT NULL,
			editor TEXT NOT NULL DEFAULT 'system',
			markdown TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS research_memory_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			memory_key TEXT NOT NULL UNIQUE,
			memory_type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			source_week TEXT NOT NULL,
			provenance TEXT NOT NULL DEFAULT '',
			embedding TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memory_week ON research_memory_entries(source_week)`,
		`CREATE TABLE IF NOT EXISTS export_artifacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			brief_version_id INTEGER NOT NULL REFERENCES research_brief_versions(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// WithTx runs fn inside one transaction. The transaction commits only when
// fn returns nil; any error rolls back every write fn performed.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx, ctx: ctx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// Tx is the unit-of-work handle passed to WithTx callbacks.
type Tx struct {
	tx  *sql.Tx
	ctx context.Context
}

// timeFormat is the canonical timestamp encoding for TEXT columns.
const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

// marshalEmbedding stores vectors as JSON arrays in TEXT columns; nil stays
// NULL.
func marshalEmbedding(v []float64) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling embedding: %w", err)
	}
	return string(data), nil
}
