// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/frontier-pulse/internal/httputil"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// fullTextLimit bounds stored full text while preserving substantial context.
const fullTextLimit = 250_000

// ArxivConnector queries the arXiv API by category and extracts linked PDF
// full text through the parser chain.
type ArxivConnector struct {
	Client     *http.Client
	Categories []string
	Parsers    ParserChain
	HTTP       types.HTTPConfig
}

// Name returns the source tag.
func (c *ArxivConnector) Name() string { return "arxiv" }

// Fetch queries the most recently updated entries across the configured
// categories. PDF extraction degrades to title+abstract, never errors.
func (c *ArxivConnector) Fetch(ctx context.Context, maxItems int) ([]types.Document, error) {
	if len(c.Categories) == 0 {
		return nil, &FetchError{Source: c.Name(), Err: fmt.Errorf("no categories configured")}
	}

	terms := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		terms = append(terms, "cat:"+cat)
	}
	url := fmt.Sprintf(
		"%s?search_query=%s&sortBy=lastUpdatedDate&sortOrder=descending&start=0&max_results=%d",
		arxivAPIBase, strings.Join(terms, "+OR+"), maxItems,
	)

	body, err := httputil.GetWithRetry(ctx, c.Client, url, c.HTTP.UserAgent, 0)
	if err != nil {
		return nil, &FetchError{Source: c.Name(), Err: err}
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, &FetchError{Source: c.Name(), Err: fmt.Errorf("parsing arXiv response: %w", err)}
	}

	var docs []types.Document
	for _, entry := range feed.Entries {
		title := strings.TrimSpace(entry.Title)
		abstract := strings.TrimSpace(entry.Summary)
		entryID := strings.TrimSpace(entry.ID)

		var authors []string
		for _, a := range entry.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				authors = append(authors, name)
			}
		}

		var pdfURL string
		for _, link := range entry.Links {
			if link.Title == "pdf" {
				pdfURL = link.Href
			}
		}

		doc := types.Document{
			Source:    c.Name(),
			SourceID:  entryID,
			ArxivID:   arxivIDFromEntry(entryID),
			Title:     title,
			Authors:   strings.Join(authors, ", "),
			Abstract:  abstract,
			FullText:  c.fullText(ctx, pdfURL, title, abstract),
			SourceURL: entryID,
		}
		if pdfURL != "" {
			doc.SourceURL = pdfURL
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			doc.PublishedAt = t
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Updated); parseErr == nil {
			doc.UpdatedAt = &t
		}

		docs = append(docs, doc)
	}
	return docs, nil
}

// fullText downloads the linked PDF and runs the parser chain. Any failure
// narrows to title+abstract.
func (c *ArxivConnector) fullText(ctx context.Context, pdfURL, title, abstract string) string {
	fallback := title + "\n\n" + abstract
	if pdfURL == "" {
		return fallback
	}

	data, err := httputil.GetWithRetry(ctx, c.Client, pdfURL, c.HTTP.UserAgent, 0)
	if err != nil {
		return fallback
	}

	text := c.Parsers.Extract(data)
	if text == "" {
		return fallback
	}
	if len(text) > fullTextLimit {
		text = text[:fullTextLimit]
	}
	return text
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Updated   string        `xml:"updated"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

// arxivIDFromEntry pulls the trailing arXiv ID from an entry URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1").
func arxivIDFromEntry(entryID string) string {
	if entryID == "" {
		return ""
	}
	parts := strings.Split(entryID, "/")
	return parts[len(parts)-1]
}
