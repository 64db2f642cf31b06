// Package trafilatura extracts the article body and byline from published
// pages.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/aeo"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements aeo.Extractor at compile time.
var _ aeo.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main article out of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title, author and body HTML.
// The site name suffix common in <title> tags is removed.
func (e *Extractor) Extract(rawHTML string) (*aeo.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, aeo.Errorf(aeo.EINVALID, "extract article: %v", err)
	}

	var body string
	if result.ContentNode != nil {
		if body, err = renderNode(result.ContentNode); err != nil {
			return nil, err
		}
	}

	return &aeo.ExtractResult{
		Title:       trimSiteName(result.Metadata.Title, result.Metadata.Sitename),
		Author:      strings.TrimSpace(result.Metadata.Author),
		ContentHTML: body,
	}, nil
}

// trimSiteName drops a trailing "| Site" or "- Site" from title.
func trimSiteName(title, site string) string {
	title = strings.TrimSpace(title)
	if site == "" {
		return title
	}
	for _, sep := range []string{" | ", " - ", " – ", " :: "} {
		if t, ok := strings.CutSuffix(title, sep+site); ok {
			return strings.TrimSpace(t)
		}
	}
	return title
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
