// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/frontier-pulse/internal/httputil"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Scaling Test-Time Compute</title>
    <summary>We study inference-time reasoning budgets.</summary>
    <published>2026-08-20T10:00:00Z</published>
    <updated>2026-08-25T09:30:00Z</updated>
    <author><name>A. Researcher</name></author>
    <author><name>B. Scientist</name></author>
    <link href="%s/pdf/2301.07041v1" title="pdf"/>
  </entry>
</feed>`

func TestArxivConnector_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	var ts *httptest.Server
	mux.HandleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "cat:cs.CL")
		fmt.Fprintf(w, arxivFeedXML, ts.URL)
	})
	mux.HandleFunc("/pdf/", func(w http.ResponseWriter, _ *http.Request) {
		// Not a valid PDF; the parser chain degrades to title+abstract.
		w.Write([]byte("not a pdf"))
	})
	ts = httptest.NewServer(mux)
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL + "/api/query"
	defer func() { arxivAPIBase = old }()

	c := &ArxivConnector{
		Client:     ts.Client(),
		Categories: []string{"cs.CL", "cs.LG"},
		Parsers:    DefaultParserChain(),
	}
	docs, err := c.Fetch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "arxiv", doc.Source)
	assert.Equal(t, "http://arxiv.org/abs/2301.07041v1", doc.SourceID)
	assert.Equal(t, "2301.07041v1", doc.ArxivID)
	assert.Equal(t, "Scaling Test-Time Compute", doc.Title)
	assert.Equal(t, "A. Researcher, B. Scientist", doc.Authors)
	assert.Equal(t, "Scaling Test-Time Compute\n\nWe study inference-time reasoning budgets.", doc.FullText)
	assert.Equal(t, 2026, doc.PublishedAt.Year())
	require.NotNil(t, doc.UpdatedAt)
	assert.True(t, strings.HasSuffix(doc.SourceURL, "/pdf/2301.07041v1"))
}

func TestArxivConnector_APIFailureAfterRetries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	c := &ArxivConnector{Client: ts.Client(), Categories: []string{"cs.CL"}}
	_, err := c.Fetch(context.Background(), 5)
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "arxiv", fe.Source)
}

func TestArxivConnector_NoCategories(t *testing.T) {
	c := &ArxivConnector{Client: http.DefaultClient}
	_, err := c.Fetch(context.Background(), 5)
	require.Error(t, err)
}
