package aeo

import (
	"bytes"
	"encoding/json"
)

// SchemaContext is the JSON-LD @context for every compiled document.
const SchemaContext = "https://schema.org"

// Document is a compiled JSON-LD document. Field order matches the key
// order of the serialized output; optional keys are omitted when empty.
type Document struct {
	Context       string          `json:"@context"`
	Type          string          `json:"@type"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	URL           string          `json:"url"`
	DatePublished string          `json:"datePublished"`
	DateModified  string          `json:"dateModified"`
	Author        Person          `json:"author"`
	Publisher     Organization    `json:"publisher"`
	InLanguage    string          `json:"inLanguage"`
	Headline      string          `json:"headline,omitempty"`
	ArticleBody   string          `json:"articleBody,omitempty"`
	WordCount     int             `json:"wordCount,omitempty"`
	MainEntity    []Question      `json:"mainEntity,omitempty"`
	Keywords      string          `json:"keywords,omitempty"`
	About         []Thing         `json:"about,omitempty"`
	Breadcrumb    *BreadcrumbList `json:"breadcrumb,omitempty"`
	TimeRequired  string          `json:"timeRequired,omitempty"`
}

// MarshalIndent encodes doc as indented JSON without HTML escaping, ending
// in a newline.
func (d *Document) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Has reports whether the serialized document contains key.
func (d *Document) Has(key string) bool {
	switch key {
	case "@context", "@type", "name", "description", "url", "datePublished",
		"dateModified", "author", "publisher", "inLanguage":
		return true
	case "headline":
		return d.Headline != ""
	case "articleBody":
		return d.ArticleBody != ""
	case "wordCount":
		return d.WordCount != 0
	case "mainEntity":
		return len(d.MainEntity) > 0
	case "keywords":
		return d.Keywords != ""
	case "about":
		return len(d.About) > 0
	case "breadcrumb":
		return d.Breadcrumb != nil
	case "timeRequired":
		return d.TimeRequired != ""
	}
	return false
}

// Person is a schema.org Person.
type Person struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
}

// Organization is a schema.org Organization.
type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Question is a schema.org Question with its accepted answer.
type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// Answer is a schema.org Answer.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// Thing is a schema.org Thing, used for the about property.
type Thing struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BreadcrumbList is a schema.org BreadcrumbList.
type BreadcrumbList struct {
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ListItem is a single breadcrumb entry.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}
