// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"fmt"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	rscpdf "rsc.io/pdf"
)

// ParserChain extracts plain text from PDF bytes by trying a primary parser
// and then a fallback. Both parsers failing or returning empty text yields
// ""; the caller degrades to title+abstract. Extraction never panics past
// this package: malformed PDFs make the libraries panic, which is treated
// as a parser failure.
type ParserChain struct {
	Primary  string
	Fallback string
}

// Parser names accepted by the chain.
const (
	ParserLedongthuc = "ledongthuc"
	ParserRscPDF     = "rscpdf"
)

// DefaultParserChain is the configured default order.
func DefaultParserChain() ParserChain {
	return ParserChain{Primary: ParserLedongthuc, Fallback: ParserRscPDF}
}

// Extract runs the chain over data and returns trimmed text, or "" when
// every stage fails.
func (c ParserChain) Extract(data []byte) string {
	for _, name := range []string{c.Primary, c.Fallback} {
		text, err := parseWith(name, data)
		if err != nil {
			continue
		}
		if cleaned := strings.TrimSpace(text); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

func parseWith(name string, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser %s: %v", name, r)
		}
	}()

	switch name {
	case ParserLedongthuc:
		return parseLedongthuc(data)
	case ParserRscPDF:
		return parseRscPDF(data)
	default:
		return "", fmt.Errorf("unknown pdf parser %q", name)
	}
}

func parseLedongthuc(data []byte) (string, error) {
	r, err := ltpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	return buf.String(), nil
}

func parseRscPDF(data []byte) (string, error) {
	r, err := rscpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, t := range page.Content().Text {
			b.WriteString(t.S)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
