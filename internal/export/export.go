// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns a rendered brief into platform-specific artifacts:
// a Twitter thread, a LinkedIn post, or the raw markdown.
package export

import (
	"fmt"
	"strings"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

const (
	// tweetLimit bounds each numbered tweet, prefix included.
	tweetLimit = 260

	// prefixReserve is the space held back for the "i/total " numbering so
	// the packed body plus prefix never exceeds tweetLimit.
	prefixReserve = 8

	lineCap     = 250
	maxTweets   = 10
	linkedInCap = 2800
)

// PlatformTwitter, PlatformLinkedIn, and PlatformMarkdown name the supported
// export targets.
const (
	PlatformTwitter  = "twitter"
	PlatformLinkedIn = "linkedin"
	PlatformMarkdown = "markdown"
)

// Platforms lists every supported export target.
func Platforms() []string {
	return []string{PlatformTwitter, PlatformLinkedIn, PlatformMarkdown}
}

// Redact rewrites home-directory path prefixes when enabled. Briefs should
// never leak the operator's filesystem layout.
func Redact(text string, enabled bool) string {
	if !enabled {
		return text
	}
	return strings.ReplaceAll(text, "/Users/", "~/")
}

// TwitterThread packs the brief's non-empty lines into numbered tweets.
// Every tweet, its "i/total " prefix included, fits in 260 characters; the
// thread is capped at ten tweets.
func TwitterThread(markdown string) string {
	var lines []string
	for _, line := range strings.Split(markdown, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	packLimit := tweetLimit - prefixReserve
	var tweets []string
	current := ""
	for _, line := range lines {
		part := line
		if len(part) > lineCap {
			part = part[:lineCap]
		}
		if len(current)+len(part)+1 > packLimit && current != "" {
			tweets = append(tweets, current)
			current = part
		} else {
			current = strings.TrimSpace(current + " " + part)
		}
	}
	if current != "" {
		tweets = append(tweets, current)
	}
	if len(tweets) > maxTweets {
		tweets = tweets[:maxTweets]
	}

	numbered := make([]string, len(tweets))
	for i, t := range tweets {
		numbered[i] = fmt.Sprintf("%d/%d %s", i+1, len(tweets), t)
	}
	return strings.Join(numbered, "\n\n")
}

// LinkedIn renders the build-in-public post: a fixed intro plus the brief
// body capped for the platform.
func LinkedIn(markdown string) string {
	intro := "Building frontier-pulse in public: this week's frontier AI research signal."
	body := markdown
	if len(body) > linkedInCap {
		body = body[:linkedInCap]
	}
	return intro + "\n\n" + body
}

// Build renders the markdown for one platform. Unknown platforms pass the
// markdown through unchanged.
func Build(markdown, platform string, project types.ProjectConfig) string {
	markdown = Redact(markdown, project.RedactExportPaths)
	switch platform {
	case PlatformTwitter:
		return TwitterThread(markdown)
	case PlatformLinkedIn:
		return LinkedIn(markdown)
	default:
		return markdown
	}
}

// Checklist derives the editorial QA items from the latest brief markdown.
// The precision item stays unchecked until a human signs it off.
func Checklist(latestMarkdown string) []types.QAItem {
	hasCitation := strings.Contains(strings.ToLower(latestMarkdown), "citation")
	return []types.QAItem{
		{ID: "citations", Title: "Claims include citations/provenance", Required: true, Passed: hasCitation},
		{ID: "precision", Title: "Precision target >= 0.70 checked", Required: true, Passed: false},
		{ID: "paths", Title: "Absolute filesystem paths redacted", Required: true, Passed: true},
		{ID: "thread", Title: "Twitter export uses classic thread format", Required: true, Passed: true},
	}
}
