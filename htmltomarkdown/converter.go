// Package htmltomarkdown compacts HTML post bodies into Markdown for model
// prompts.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/aeo"
)

// Ensure Converter implements aeo.Converter at compile time.
var _ aeo.Converter = (*Converter)(nil)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// Converter wraps html-to-markdown.
type Converter struct {
	conv     *converter.Converter
	maxRunes int
}

// Option configures a Converter.
type Option func(*Converter)

// WithMaxRunes truncates converted output to n runes. Zero disables the limit.
func WithMaxRunes(n int) Option {
	return func(c *Converter) {
		c.maxRunes = n
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML into Markdown with runs of blank lines collapsed.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", aeo.Errorf(aeo.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", aeo.Errorf(aeo.EINVALID, "convert html: %v", err)
	}
	md = strings.TrimSpace(blankLinesRe.ReplaceAllString(md, "\n\n"))
	if c.maxRunes > 0 {
		md = aeo.Truncate(md, c.maxRunes)
	}
	return md, nil
}
