// Package readability extracts article content with the Readability
// heuristics. It is the fallback for pages where trafilatura finds nothing.
package readability

import (
	"strings"

	"github.com/fwojciec/aeo"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements aeo.Extractor at compile time.
var _ aeo.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title, byline and body HTML.
func (e *Extractor) Extract(rawHTML string) (*aeo.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, aeo.Errorf(aeo.EINVALID, "extract article: %v", err)
	}

	return &aeo.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		Author:      strings.TrimSpace(article.Byline),
		ContentHTML: article.Content,
	}, nil
}
