// Package goquery implements the free local suggestion provider. It reads
// HTML structure (headings, bold text) with goquery and scores plain text
// with deterministic heuristics.
package goquery

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/aeo"
)

// ProviderKey is the registry key of the heuristic provider.
const ProviderKey = "basic"

var _ aeo.SuggestionProvider = (*Provider)(nil)

// Provider suggests metadata using keyword statistics, pattern tables and
// document structure. It never makes network calls and costs nothing.
type Provider struct {
	// Now returns the analysis timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewProvider creates a new Provider.
func NewProvider() *Provider {
	return &Provider{Now: time.Now}
}

// Info describes the provider for selection lists.
func (p *Provider) Info() aeo.ProviderInfo {
	return aeo.ProviderInfo{
		Key:           ProviderKey,
		Name:          "Basic Analysis",
		QualityRating: 2,
		EstimatedTime: 1,
		Free:          true,
	}
}

// Analyze returns heuristic suggestions for title and content.
func (p *Provider) Analyze(ctx context.Context, title, content string, opts aeo.AnalyzeOptions) (*aeo.ContentAnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, aeo.Errorf(aeo.EINVALID, "parse content: %v", err)
	}

	plainTitle := aeo.PlainText(title)
	plainContent := aeo.PlainText(content)

	keywords := extractKeywords(plainTitle, plainContent)
	if len(keywords) > opts.MaxKeywords {
		keywords = keywords[:opts.MaxKeywords]
	}

	result := &aeo.ContentAnalysisResult{
		Suggestions: aeo.Suggestions{
			Keywords: rankItems(keywords, aeo.KindKeyword, 90, 3, 60, "Extracted from content"),
			Tags:     suggestTags(plainTitle, plainContent, keywords, opts),
			Topics:   rankItems(extractTopics(plainTitle, plainContent, keywords, doc, opts.MaxTopics), aeo.KindTopic, 85, 5, 65, "Identified in content"),
			FAQs:     detectFAQs(plainContent, doc, opts.MaxFAQs),
		},
		ContentType: classify(title, content),
		Metadata: aeo.AnalysisMetadata{
			WordCount:  aeo.CountWords(content),
			Provider:   ProviderKey,
			AnalyzedAt: p.now(),
		},
	}
	result.Normalize()

	quality := qualityScore(result)
	result.Metadata.QualityScore = &quality
	return result, nil
}

func (p *Provider) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}

// rankItems turns an ordered name list into items whose confidence drops by
// step per rank, starting at top and never going below floor.
func rankItems(names []string, kind aeo.SuggestionKind, top, step, floor int, reason string) []aeo.SuggestionItem {
	items := make([]aeo.SuggestionItem, 0, len(names))
	for i, name := range names {
		items = append(items, aeo.SuggestionItem{
			Name:       name,
			Kind:       kind,
			Confidence: max(floor, top-i*step),
			Provenance: aeo.ProvenanceAI,
			Reasoning:  reason,
		})
	}
	return items
}

// qualityScore sums coverage factors of the analysis, capped at 100.
func qualityScore(r *aeo.ContentAnalysisResult) int {
	var score int
	if n := len(r.Suggestions.Keywords); n > 0 {
		score += min(30, n*5)
	}
	if n := len(r.Suggestions.Tags); n > 0 {
		score += min(25, n*5)
	}
	if n := len(r.Suggestions.Topics); n > 0 {
		score += min(20, n*4)
	}
	switch words := r.Metadata.WordCount; {
	case words > 300:
		score += 15
	case words > 100:
		score += 10
	}
	if len(r.Suggestions.FAQs) > 0 {
		score += 10
	}
	return min(100, score)
}
