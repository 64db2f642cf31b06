package aeo

import "time"

// List size caps for a ContentRecord. Callers enforce them before a record
// reaches the compiler or the analyzer.
const (
	MaxTopics   = 5
	MaxKeywords = 10
	MaxFAQItems = 10
)

// FAQItem is a single question and answer pair attached to a content record.
type FAQItem struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// ContentRecord represents a page or post as supplied by the persistence layer.
type ContentRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Body         string    `json:"body" yaml:"body"`
	Topics       []string  `json:"topics,omitempty" yaml:"topics,omitempty"`
	Keywords     []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	FAQItems     []FAQItem `json:"faqItems,omitempty" yaml:"faq_items,omitempty"`
	SchemaType   string    `json:"schemaType" yaml:"schema_type"`
	CanonicalURL string    `json:"canonicalUrl" yaml:"canonical_url"`
	Author       string    `json:"author" yaml:"author"`
	PublishedAt  time.Time `json:"publishedAt" yaml:"published_at"`
	ModifiedAt   time.Time `json:"modifiedAt" yaml:"modified_at"`

	// ReadingTimeMinutes overrides the reading time computed from Body.
	ReadingTimeMinutes *int `json:"readingTimeMinutes,omitempty" yaml:"reading_time_minutes,omitempty"`
}

// Validate returns an error if the record exceeds its list caps or has no
// schema type. Schema type membership is checked by the compiler.
func (r *ContentRecord) Validate() error {
	if r.SchemaType == "" {
		return Errorf(EINVALID, "content schema type required")
	}
	if len(r.Topics) > MaxTopics {
		return Errorf(EINVALID, "content has %d topics, maximum is %d", len(r.Topics), MaxTopics)
	}
	if len(r.Keywords) > MaxKeywords {
		return Errorf(EINVALID, "content has %d keywords, maximum is %d", len(r.Keywords), MaxKeywords)
	}
	if len(r.FAQItems) > MaxFAQItems {
		return Errorf(EINVALID, "content has %d FAQ items, maximum is %d", len(r.FAQItems), MaxFAQItems)
	}
	if r.ReadingTimeMinutes != nil && *r.ReadingTimeMinutes < 0 {
		return Errorf(EINVALID, "content reading time cannot be negative")
	}
	return nil
}
