// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/frontier-pulse/internal/httputil"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

// openReviewAPIBase is the OpenReview notes endpoint. Declared as a var so
// tests can substitute an httptest server.
var openReviewAPIBase = "https://api2.openreview.net/notes"

// defaultVenue is queried when no venue is configured.
const defaultVenue = "ICLR.cc/2026/Conference"

// OpenReviewConnector fetches submission notes for one venue.
type OpenReviewConnector struct {
	Client *http.Client
	Venue  string
	HTTP   types.HTTPConfig

	// now stubs the publication timestamp in tests. OpenReview notes carry
	// no reliable publication date for this query shape.
	now func() time.Time
}

// Name returns the source tag.
func (c *OpenReviewConnector) Name() string { return "openreview" }

// Fetch retrieves up to maxItems notes filtered by venue id.
func (c *OpenReviewConnector) Fetch(ctx context.Context, maxItems int) ([]types.Document, error) {
	venue := c.Venue
	if venue == "" {
		venue = defaultVenue
	}
	url := fmt.Sprintf("%s?content.venueid=%s&limit=%d", openReviewAPIBase, venue, maxItems)

	body, err := httputil.GetWithRetry(ctx, c.Client, url, c.HTTP.UserAgent, 0)
	if err != nil {
		return nil, &FetchError{Source: c.Name(), Err: err}
	}

	var payload openReviewResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Source: c.Name(), Err: fmt.Errorf("parsing OpenReview response: %w", err)}
	}

	nowFn := c.now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	var docs []types.Document
	for _, note := range payload.Notes {
		if len(docs) >= maxItems {
			break
		}
		title := note.Content.Title.Value
		abstract := note.Content.Abstract.Value
		docs = append(docs, types.Document{
			Source:      c.Name(),
			SourceID:    "openreview:" + note.ID,
			Title:       title,
			Authors:     strings.Join(note.Writers, ", "),
			Abstract:    abstract,
			FullText:    title + "\n\n" + abstract,
			PublishedAt: nowFn(),
			SourceURL:   "https://openreview.net/forum?id=" + note.ID,
		})
	}
	return docs, nil
}

// OpenReview API JSON structures. Content fields arrive as {"value": ...}
// wrappers in API v2.
type openReviewResponse struct {
	Notes []openReviewNote `json:"notes"`
}

type openReviewNote struct {
	ID      string            `json:"id"`
	Writers []string          `json:"writers"`
	Content openReviewContent `json:"content"`
}

type openReviewContent struct {
	Title    openReviewValue `json:"title"`
	Abstract openReviewValue `json:"abstract"`
}

type openReviewValue struct {
	Value string `json:"value"`
}
