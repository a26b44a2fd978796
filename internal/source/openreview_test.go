// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openReviewJSON = `{
  "notes": [
    {
      "id": "abc123",
      "writers": ["Reviewer One", "Reviewer Two"],
      "content": {
        "title": {"value": "Sparse Routing at Scale"},
        "abstract": {"value": "A study of expert routing."}
      }
    },
    {
      "id": "def456",
      "writers": [],
      "content": {
        "title": {"value": "Second Paper"},
        "abstract": {"value": "More content."}
      }
    }
  ]
}`

func TestOpenReviewConnector_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "content.venueid=ICLR.cc/2026/Conference")
		w.Write([]byte(openReviewJSON))
	}))
	defer ts.Close()

	old := openReviewAPIBase
	openReviewAPIBase = ts.URL
	defer func() { openReviewAPIBase = old }()

	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	c := &OpenReviewConnector{Client: ts.Client(), now: func() time.Time { return fixed }}

	docs, err := c.Fetch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "openreview", docs[0].Source)
	assert.Equal(t, "openreview:abc123", docs[0].SourceID)
	assert.Equal(t, "Sparse Routing at Scale", docs[0].Title)
	assert.Equal(t, "Reviewer One, Reviewer Two", docs[0].Authors)
	assert.Equal(t, "Sparse Routing at Scale\n\nA study of expert routing.", docs[0].FullText)
	assert.Equal(t, fixed, docs[0].PublishedAt)
	assert.Equal(t, "https://openreview.net/forum?id=abc123", docs[0].SourceURL)
}

func TestOpenReviewConnector_MaxItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(openReviewJSON))
	}))
	defer ts.Close()

	old := openReviewAPIBase
	openReviewAPIBase = ts.URL
	defer func() { openReviewAPIBase = old }()

	c := &OpenReviewConnector{Client: ts.Client()}
	docs, err := c.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
