package aeo

import (
	"strings"
	"time"
)

// Truncation limits for compiled text fields, in runes.
const (
	DescriptionLimit = 160
	ArticleBodyLimit = 200
)

// DefaultLanguage is the inLanguage value when none is configured.
const DefaultLanguage = "en"

// Warning codes reported by the compiler.
const (
	WarnMissingProperty = "missing_property"
	WarnThinContent     = "thin_content"
	WarnMissingKeywords = "missing_keywords"
	WarnMissingTopics   = "missing_topics"
)

// SchemaWarning is a non-fatal validation finding. Compilation still succeeds.
type SchemaWarning struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// CompileResult is a compiled document plus any soft validation warnings.
type CompileResult struct {
	Document *Document       `json:"document"`
	Warnings []SchemaWarning `json:"warnings,omitempty"`
}

// Site describes the website that publishes compiled documents.
type Site struct {
	Origin        string `json:"origin" yaml:"origin"`
	PublisherName string `json:"publisherName" yaml:"publisher_name"`
	PublisherURL  string `json:"publisherUrl" yaml:"publisher_url"`
	Language      string `json:"language" yaml:"language"`
}

// Compiler turns content records into JSON-LD documents. It holds no
// per-call state, so a single Compiler may be used from many goroutines.
type Compiler struct {
	Registry SchemaTypeRegistry
	Site     Site

	// Now supplies the fallback timestamp for records without dates.
	Now func() time.Time
}

// NewCompiler returns a Compiler using registry and site settings.
func NewCompiler(registry SchemaTypeRegistry, site Site) *Compiler {
	return &Compiler{Registry: registry, Site: site, Now: time.Now}
}

// Compile builds the JSON-LD document for record.
//
// Returns ESCHEMA if the title is empty or the body has no text once markup
// is stripped, and EUNKNOWNTYPE if the record's schema type is not
// registered. Every other gap only omits the affected optional key and may
// add a warning.
func (c *Compiler) Compile(record *ContentRecord) (*CompileResult, error) {
	if strings.TrimSpace(record.Title) == "" {
		return nil, Errorf(ESCHEMA, "content title required")
	}
	text := PlainText(record.Body)
	if text == "" {
		return nil, Errorf(ESCHEMA, "content body required")
	}

	rule, err := c.Registry.Lookup(record.SchemaType)
	if err != nil {
		return nil, err
	}

	words := len(strings.Fields(text))

	published, modified := c.dates(record)
	doc := &Document{
		Context:       SchemaContext,
		Type:          rule.TypeName,
		Name:          record.Title,
		Description:   Truncate(text, DescriptionLimit),
		URL:           record.CanonicalURL,
		DatePublished: published,
		DateModified:  modified,
		Author:        Person{Type: "Person", Name: record.Author},
		Publisher: Organization{
			Type: "Organization",
			Name: c.Site.PublisherName,
			URL:  c.Site.PublisherURL,
		},
		InLanguage: c.language(),
	}

	if rule.Generators.ArticleBody {
		doc.Headline = record.Title
		doc.ArticleBody = Truncate(text, ArticleBodyLimit)
	}
	if rule.Generators.WordCount {
		doc.WordCount = words
	}
	if rule.Generators.FAQEntity {
		doc.MainEntity = faqEntities(record.FAQItems)
	}
	if len(record.Keywords) > 0 {
		doc.Keywords = strings.Join(record.Keywords, ", ")
	}
	if len(record.Topics) > 0 {
		doc.About = make([]Thing, len(record.Topics))
		for i, topic := range record.Topics {
			doc.About[i] = Thing{Type: "Thing", Name: topic}
		}
	}
	if rule.Generators.Breadcrumb {
		doc.Breadcrumb = BuildBreadcrumb(record.Title, record.Topics, c.Site.Origin, record.CanonicalURL)
	}

	minutes := ReadingMinutes(words)
	if record.ReadingTimeMinutes != nil && *record.ReadingTimeMinutes > 0 {
		minutes = *record.ReadingTimeMinutes
	}
	doc.TimeRequired = FormatISODuration(minutes)

	return &CompileResult{
		Document: doc,
		Warnings: validate(rule, record, doc, words),
	}, nil
}

// validate collects soft warnings for a compiled document.
func validate(rule SchemaTypeRule, record *ContentRecord, doc *Document, words int) []SchemaWarning {
	var warnings []SchemaWarning

	for _, field := range rule.RequiredFields {
		if !doc.Has(field) {
			warnings = append(warnings, SchemaWarning{
				Code:    WarnMissingProperty,
				Field:   field,
				Message: rule.TypeName + " requires " + field,
			})
		}
	}
	if rule.MinWordCount > 0 && words < rule.MinWordCount {
		warnings = append(warnings, SchemaWarning{
			Code:    WarnThinContent,
			Field:   "articleBody",
			Message: rule.TypeName + " body is shorter than the recommended minimum word count",
		})
	}
	if len(record.Keywords) == 0 {
		warnings = append(warnings, SchemaWarning{
			Code:    WarnMissingKeywords,
			Field:   "keywords",
			Message: "no keywords set",
		})
	}
	if len(record.Topics) == 0 {
		warnings = append(warnings, SchemaWarning{
			Code:    WarnMissingTopics,
			Field:   "about",
			Message: "no topics set; about and breadcrumb are omitted",
		})
	}
	return warnings
}

func faqEntities(items []FAQItem) []Question {
	if len(items) == 0 {
		return nil
	}
	questions := make([]Question, len(items))
	for i, item := range items {
		questions[i] = Question{
			Type:           "Question",
			Name:           item.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: item.Answer},
		}
	}
	return questions
}

// dates returns RFC 3339 published and modified timestamps. A missing date
// falls back to the other one, then to the compiler clock.
func (c *Compiler) dates(record *ContentRecord) (string, string) {
	published, modified := record.PublishedAt, record.ModifiedAt
	if published.IsZero() {
		published = modified
	}
	if modified.IsZero() {
		modified = published
	}
	if published.IsZero() {
		now := time.Now
		if c.Now != nil {
			now = c.Now
		}
		published = now()
		modified = published
	}
	return published.UTC().Format(time.RFC3339), modified.UTC().Format(time.RFC3339)
}

func (c *Compiler) language() string {
	if c.Site.Language != "" {
		return c.Site.Language
	}
	return DefaultLanguage
}
