// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source fetches documents from the configured external sources:
// the arXiv API, the OpenReview notes API, and RSS/Atom feed lists. Each
// connector normalizes its entries into types.Document values.
package source

import (
	"context"
	"fmt"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

// Connector fetches up to maxItems normalized documents from one source.
// Implementations must be safe for concurrent use with other connectors;
// they share no mutable state.
type Connector interface {
	// Name returns the source tag.
	Name() string

	// Fetch retrieves and normalizes documents.
	Fetch(ctx context.Context, maxItems int) ([]types.Document, error)
}

// FetchError is the terminal failure of one source after retries are
// exhausted. The orchestrator records it and continues with other sources.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DefaultRSSFeeds returns the built-in feed lists per RSS source tag.
// The x_threads tag is kept empty: the official API needs auth and a
// dedicated connector.
func DefaultRSSFeeds() map[string][]string {
	return map[string][]string{
		"frontier_blogs": {
			"https://www.anthropic.com/news/rss.xml",
			"https://openai.com/news/rss.xml",
			"https://www.deepmind.com/blog/rss.xml",
		},
		"reddit": {
			"https://www.reddit.com/r/MachineLearning/.rss",
			"https://www.reddit.com/r/LocalLLaMA/.rss",
		},
		"university_blogs": {
			"https://bair.berkeley.edu/blog/feed.xml",
			"https://news.mit.edu/rss/topic/artificial-intelligence2",
		},
		"x_threads": {},
	}
}
