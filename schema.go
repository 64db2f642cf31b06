package aeo

import (
	"sort"
	"sync"
)

// Supported Schema.org types.
const (
	SchemaArticle     = "Article"
	SchemaBlogPosting = "BlogPosting"
	SchemaNewsArticle = "NewsArticle"
	SchemaReview      = "Review"
	SchemaHowTo       = "HowTo"
	SchemaFAQPage     = "FAQPage"
	SchemaWebPage     = "WebPage"
	SchemaAboutPage   = "AboutPage"
	SchemaContactPage = "ContactPage"
)

// articleMinWords is the body length below which article-family documents
// are flagged as thin content.
const articleMinWords = 300

// Generators toggles the optional, rule-driven parts of a compiled document.
type Generators struct {
	// Breadcrumb emits a BreadcrumbList derived from the record's topics.
	Breadcrumb bool
	// FAQEntity emits mainEntity as a list of Question/Answer pairs.
	FAQEntity bool
	// ArticleBody emits headline and a truncated articleBody.
	ArticleBody bool
	// WordCount emits the body word count.
	WordCount bool
}

// SchemaTypeRule describes how documents of one Schema.org type are generated.
type SchemaTypeRule struct {
	TypeName string
	Label    string

	// RequiredFields lists JSON-LD keys that must be present in the compiled
	// document. Missing ones are reported as warnings.
	RequiredFields []string

	Generators Generators

	// MinWordCount, when positive, flags bodies shorter than this many words.
	MinWordCount int
}

// SchemaTypeRegistry looks up generation rules by Schema.org type name.
type SchemaTypeRegistry interface {
	// Lookup returns the rule for typeName.
	// Returns EUNKNOWNTYPE if the type is not registered.
	Lookup(typeName string) (SchemaTypeRule, error)

	// Register adds or replaces the rule for rule.TypeName.
	Register(rule SchemaTypeRule)

	// List returns all registered type names in sorted order.
	List() []string
}

// Ensure RuleRegistry implements SchemaTypeRegistry at compile time.
var _ SchemaTypeRegistry = (*RuleRegistry)(nil)

// RuleRegistry is a map-backed SchemaTypeRegistry safe for concurrent use.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]SchemaTypeRule
}

// NewRuleRegistry returns an empty registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{rules: make(map[string]SchemaTypeRule)}
}

// NewDefaultRegistry returns a registry holding the built-in rules for every
// supported schema type.
func NewDefaultRegistry() *RuleRegistry {
	r := NewRuleRegistry()
	for _, rule := range DefaultRules() {
		r.Register(rule)
	}
	return r
}

// Lookup returns the rule for typeName.
func (r *RuleRegistry) Lookup(typeName string) (SchemaTypeRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[typeName]
	if !ok {
		return SchemaTypeRule{}, Errorf(EUNKNOWNTYPE, "unknown schema type %q", typeName)
	}
	return rule, nil
}

// Register adds or replaces a rule.
func (r *RuleRegistry) Register(rule SchemaTypeRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.TypeName] = rule
}

// List returns the registered type names in sorted order.
func (r *RuleRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRules returns the built-in rules.
func DefaultRules() []SchemaTypeRule {
	article := func(name, label string) SchemaTypeRule {
		return SchemaTypeRule{
			TypeName:       name,
			Label:          label,
			RequiredFields: []string{"headline", "articleBody"},
			Generators: Generators{
				Breadcrumb:  true,
				ArticleBody: true,
				WordCount:   true,
			},
			MinWordCount: articleMinWords,
		}
	}
	page := func(name, label string) SchemaTypeRule {
		return SchemaTypeRule{
			TypeName:       name,
			Label:          label,
			RequiredFields: []string{"name", "description"},
			Generators:     Generators{Breadcrumb: true},
		}
	}

	return []SchemaTypeRule{
		article(SchemaArticle, "Article"),
		article(SchemaBlogPosting, "Blog Post"),
		article(SchemaNewsArticle, "News Article"),
		{
			TypeName:       SchemaReview,
			Label:          "Review",
			RequiredFields: []string{"name", "author"},
			Generators:     Generators{Breadcrumb: true},
		},
		{
			TypeName:       SchemaHowTo,
			Label:          "How-To Guide",
			RequiredFields: []string{"name", "description"},
			Generators:     Generators{Breadcrumb: true},
		},
		{
			TypeName:       SchemaFAQPage,
			Label:          "FAQ Page",
			RequiredFields: []string{"name", "mainEntity"},
			Generators:     Generators{Breadcrumb: true, FAQEntity: true},
		},
		page(SchemaWebPage, "Web Page"),
		page(SchemaAboutPage, "About Page"),
		page(SchemaContactPage, "Contact Page"),
	}
}
