package aeo

import (
	"context"
	"strings"
	"time"
)

// SuggestionKind classifies a suggestion item.
type SuggestionKind string

// SuggestionKind constants.
const (
	KindTag         SuggestionKind = "tag"
	KindKeyword     SuggestionKind = "keyword"
	KindTopic       SuggestionKind = "topic"
	KindFAQ         SuggestionKind = "faq"
	KindContentType SuggestionKind = "content_type"
)

// Valid reports whether k is a known kind.
func (k SuggestionKind) Valid() bool {
	switch k {
	case KindTag, KindKeyword, KindTopic, KindFAQ, KindContentType:
		return true
	}
	return false
}

// Provenance records where a suggestion came from.
type Provenance string

// Provenance constants.
const (
	ProvenanceAI     Provenance = "ai"
	ProvenanceManual Provenance = "manual"
)

// SuggestionItem is a single suggested piece of metadata.
type SuggestionItem struct {
	Name         string         `json:"name"`
	Kind         SuggestionKind `json:"kind"`
	Confidence   int            `json:"confidence"`
	Provenance   Provenance     `json:"provenance"`
	Reasoning    string         `json:"reasoning,omitempty"`
	SearchIntent string         `json:"searchIntent,omitempty"`
}

// SuggestionKey identifies a suggestion for deduplication.
type SuggestionKey struct {
	Kind SuggestionKind
	Name string
}

// Key returns the item's (kind, normalized name) identity.
func (s SuggestionItem) Key() SuggestionKey {
	return SuggestionKey{Kind: s.Kind, Name: NormalizeName(s.Name)}
}

// Validate returns an error if the item has no name or an unknown kind.
func (s SuggestionItem) Validate() error {
	if NormalizeName(s.Name) == "" {
		return Errorf(EINVALID, "suggestion name required")
	}
	if !s.Kind.Valid() {
		return Errorf(EINVALID, "unknown suggestion kind %q", s.Kind)
	}
	return nil
}

// NormalizeName lowercases name and collapses its whitespace.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ClampConfidence limits c to the range [0, 100].
func ClampConfidence(c int) int {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	}
	return c
}

// NormalizeSuggestions clamps confidences, drops unnamed items and removes
// duplicates by (kind, normalized name), keeping the first occurrence.
// The order of surviving items is preserved.
func NormalizeSuggestions(items []SuggestionItem) []SuggestionItem {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[SuggestionKey]struct{}, len(items))
	out := make([]SuggestionItem, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if key.Name == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		item.Name = strings.TrimSpace(item.Name)
		item.Confidence = ClampConfidence(item.Confidence)
		out = append(out, item)
	}
	return out
}

// FAQSuggestion is a suggested question and answer pair.
type FAQSuggestion struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Confidence int    `json:"confidence"`
	Type       string `json:"type"`
}

// Suggestions groups suggestion items by kind.
type Suggestions struct {
	Tags     []SuggestionItem `json:"tags"`
	Keywords []SuggestionItem `json:"keywords"`
	Topics   []SuggestionItem `json:"topics"`
	FAQs     []FAQSuggestion  `json:"faqs"`
}

// AnalysisMetadata describes how an analysis was produced.
type AnalysisMetadata struct {
	WordCount    int       `json:"wordCount"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model,omitempty"`
	Cost         float64   `json:"cost"`
	QualityScore *int      `json:"qualityScore,omitempty"`
	SEOScore     *int      `json:"seoScore,omitempty"`
	Improvements []string  `json:"improvements,omitempty"`
	AnalyzedAt   time.Time `json:"analyzedAt"`
	Cached       bool      `json:"cached,omitempty"`
}

// ContentAnalysisResult is the transient output of one analysis run.
type ContentAnalysisResult struct {
	Suggestions        Suggestions      `json:"suggestions"`
	ContentType        string           `json:"contentType"`
	ReadingTimeMinutes int              `json:"readingTimeMinutes"`
	Metadata           AnalysisMetadata `json:"metadata"`
}

// Normalize enforces suggestion invariants in place: each list only holds
// its own kind, provenance is ai, confidences are clamped and duplicates
// are removed. FAQ confidences are clamped and empty FAQs dropped.
func (r *ContentAnalysisResult) Normalize() {
	r.Suggestions.Tags = normalizeKind(r.Suggestions.Tags, KindTag)
	r.Suggestions.Keywords = normalizeKind(r.Suggestions.Keywords, KindKeyword)
	r.Suggestions.Topics = normalizeKind(r.Suggestions.Topics, KindTopic)

	faqs := r.Suggestions.FAQs[:0]
	seen := make(map[string]struct{}, len(r.Suggestions.FAQs))
	for _, faq := range r.Suggestions.FAQs {
		key := NormalizeName(faq.Question)
		if key == "" || strings.TrimSpace(faq.Answer) == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		faq.Confidence = ClampConfidence(faq.Confidence)
		faqs = append(faqs, faq)
	}
	r.Suggestions.FAQs = faqs

	if r.ReadingTimeMinutes < 1 {
		r.ReadingTimeMinutes = ReadingMinutes(r.Metadata.WordCount)
	}
}

func normalizeKind(items []SuggestionItem, kind SuggestionKind) []SuggestionItem {
	for i := range items {
		items[i].Kind = kind
		items[i].Provenance = ProvenanceAI
	}
	return NormalizeSuggestions(items)
}

// AnalyzeOptions bounds the number of suggestions a provider returns.
// Zero values mean the provider default.
type AnalyzeOptions struct {
	MaxTags     int
	MaxKeywords int
	MaxTopics   int
	MaxFAQs     int

	// KnownTags lists tags that already exist for the site. Providers may
	// prefer them when suggesting tags.
	KnownTags []string
}

// DefaultAnalyzeOptions returns the suggestion limits used when the caller
// does not set any.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		MaxTags:     8,
		MaxKeywords: 12,
		MaxTopics:   5,
		MaxFAQs:     5,
	}
}

// WithDefaults returns o with every unset limit replaced by its default.
func (o AnalyzeOptions) WithDefaults() AnalyzeOptions {
	def := DefaultAnalyzeOptions()
	if o.MaxTags <= 0 {
		o.MaxTags = def.MaxTags
	}
	if o.MaxKeywords <= 0 {
		o.MaxKeywords = def.MaxKeywords
	}
	if o.MaxTopics <= 0 {
		o.MaxTopics = def.MaxTopics
	}
	if o.MaxFAQs <= 0 {
		o.MaxFAQs = def.MaxFAQs
	}
	return o
}

// SuggestionProvider produces metadata suggestions for a piece of content.
type SuggestionProvider interface {
	// Analyze inspects title and content and returns suggestions.
	// Remote implementations return EPROVIDER on network or parse failures.
	Analyze(ctx context.Context, title, content string, opts AnalyzeOptions) (*ContentAnalysisResult, error)
}

// ProviderInfo describes a provider for selection UIs.
type ProviderInfo struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	QualityRating int    `json:"qualityRating"`
	EstimatedTime int    `json:"estimatedTime"`
	Free          bool   `json:"free"`
}

// AnalysisCache stores analysis results for repeated content.
type AnalysisCache interface {
	// GetAnalysis returns the cached result for key, or nil if absent or expired.
	GetAnalysis(ctx context.Context, key string) (*ContentAnalysisResult, error)

	// PutAnalysis stores result under key for ttl.
	PutAnalysis(ctx context.Context, key string, result *ContentAnalysisResult, ttl time.Duration) error
}
