package aeo

import (
	"context"
	"strings"
)

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title taken from page metadata.
	Title string

	// Author is the byline, if the page declares one.
	Author string

	// ContentHTML is the main content with navigation and other
	// boilerplate removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML into Markdown.
	// Returns EINVALID for blank input.
	Convert(html string) (string, error)
}

// TokenCounter counts model tokens in text.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// ContentStore loads and saves content records.
type ContentStore interface {
	// LoadContent reads a content record from path.
	LoadContent(path string) (*ContentRecord, error)

	// SaveContent writes a content record to path.
	SaveContent(path string, record *ContentRecord) error
}

// Extractors tries each extractor in order and returns the first result
// with article content. When none finds content, the last result and error
// are returned.
type Extractors []Extractor

// Extract implements Extractor.
func (es Extractors) Extract(html string) (*ExtractResult, error) {
	if len(es) == 0 {
		return nil, Errorf(EINVALID, "no extractors configured")
	}
	var (
		result *ExtractResult
		err    error
	)
	for _, e := range es {
		result, err = e.Extract(html)
		if err == nil && strings.TrimSpace(result.ContentHTML) != "" {
			return result, nil
		}
	}
	return result, err
}
