// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides the text primitives shared by the ingestion
// stages: whitespace normalization, token estimation, section splitting,
// sliding-window chunking, and reference-tail stripping.
package textutil

import (
	"regexp"
	"sort"
	"strings"
)

// sectionHeadings is the fixed vocabulary scanned for at line starts when
// splitting a paper into sections.
var sectionHeadings = []string{
	"abstract", "introduction", "method", "approach",
	"results", "discussion", "conclusion",
}

// tailMarkers cut the trailing reference material from extracted full text.
var tailMarkers = []string{"\nreferences", "\nappendix", "\nbibliography"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// minChunkChars floors the chunk window so tiny token targets still produce
// usable chunks.
const minChunkChars = 1200

// charsPerToken is the fast length-based token approximation.
const charsPerToken = 4

// Chunk is one sliding-window slice of a section.
type Chunk struct {
	SectionName     string
	Text            string
	EstimatedTokens int
}

// Section is a named span of the source text.
type Section struct {
	Name string
	Text string
}

// NormalizeWhitespace collapses all whitespace runs to single spaces and
// trims the result.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// EstimateTokens approximates the token count of text as max(1, len/4).
func EstimateTokens(text string) int {
	n := len(text) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// SplitSections scans for the fixed heading vocabulary at line starts and
// splits the text at each first occurrence. Text with no recognized heading
// becomes a single "main" section.
func SplitSections(text string) []Section {
	lower := strings.ToLower(text)

	type point struct {
		idx  int
		name string
	}
	var points []point
	for _, heading := range sectionHeadings {
		if idx := strings.Index(lower, "\n"+heading); idx != -1 {
			points = append(points, point{idx: idx, name: heading})
		}
	}

	if len(points) == 0 {
		return []Section{{Name: "main", Text: text}}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].idx < points[j].idx })

	var sections []Section
	for i, p := range points {
		end := len(text)
		if i+1 < len(points) {
			end = points[i+1].idx
		}
		body := strings.TrimSpace(text[p.idx:end])
		if body != "" {
			sections = append(sections, Section{Name: p.name, Text: body})
		}
	}
	if len(sections) == 0 {
		return []Section{{Name: "main", Text: text}}
	}
	return sections
}

// MakeChunks splits text into fixed-size sliding-window chunks per section.
// Window and overlap sizes are targetTokens*4 and overlapTokens*4 characters;
// the window always advances by at least one character.
func MakeChunks(text string, targetTokens, overlapTokens int) []Chunk {
	targetChars := targetTokens * charsPerToken
	if targetChars < minChunkChars {
		targetChars = minChunkChars
	}
	overlapChars := overlapTokens * charsPerToken
	if overlapChars < 0 {
		overlapChars = 0
	}

	var out []Chunk
	for _, sec := range SplitSections(text) {
		raw := NormalizeWhitespace(sec.Text)
		if raw == "" {
			continue
		}

		length := len(raw)
		for start := 0; start < length; {
			end := start + targetChars
			if end > length {
				end = length
			}
			piece := raw[start:end]
			out = append(out, Chunk{
				SectionName:     sec.Name,
				Text:            piece,
				EstimatedTokens: EstimateTokens(piece),
			})
			if end >= length {
				break
			}
			next := end - overlapChars
			if next <= start {
				next = start + 1
			}
			start = next
		}
	}
	return out
}

// StripReferenceTail drops everything from the first references, appendix,
// or bibliography marker onward.
func StripReferenceTail(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, marker := range tailMarkers {
		if idx := strings.Index(lower, marker); idx != -1 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(text[:cut])
}
