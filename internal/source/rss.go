// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

// abstractLimit bounds the summary text taken from a feed entry.
const abstractLimit = 3000

// RSSConnector normalizes RSS/Atom feed entries for one source tag.
// A single connector may span several feed URLs.
type RSSConnector struct {
	Source string
	URLs   []string
	Parser *gofeed.Parser

	now func() time.Time
}

// NewRSSConnector builds a connector over the given feed URLs.
func NewRSSConnector(source string, urls []string) *RSSConnector {
	return &RSSConnector{
		Source: source,
		URLs:   urls,
		Parser: gofeed.NewParser(),
	}
}

// Name returns the source tag.
func (c *RSSConnector) Name() string { return c.Source }

// Fetch parses each configured feed in order and stops once maxItems
// documents are collected. A feed that fails to parse fails the whole
// source; the orchestrator isolates it.
func (c *RSSConnector) Fetch(ctx context.Context, maxItems int) ([]types.Document, error) {
	nowFn := c.now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	var docs []types.Document
	for _, url := range c.URLs {
		feed, err := c.Parser.ParseURLWithContext(url, ctx)
		if err != nil {
			return nil, &FetchError{Source: c.Source, Err: err}
		}

		for _, item := range feed.Items {
			title := strings.TrimSpace(item.Title)
			summary := strings.TrimSpace(item.Description)
			if summary == "" {
				summary = strings.TrimSpace(item.Content)
			}
			if len(summary) > abstractLimit {
				summary = summary[:abstractLimit]
			}

			published := nowFn()
			if item.PublishedParsed != nil {
				published = item.PublishedParsed.UTC()
			} else if item.UpdatedParsed != nil {
				published = item.UpdatedParsed.UTC()
			}

			sourceID := c.Source + ":" + item.Link
			if item.Link == "" {
				sourceID = c.Source + ":" + title
			}

			docs = append(docs, types.Document{
				Source:      c.Source,
				SourceID:    sourceID,
				Title:       title,
				Abstract:    summary,
				FullText:    title + "\n\n" + summary,
				PublishedAt: published,
				SourceURL:   item.Link,
			})
			if len(docs) >= maxItems {
				return docs, nil
			}
		}
	}
	return docs, nil
}
