package htmltomarkdown_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
		assert.Contains(t, md, "### Section")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Visit <a href="https://example.com">Example</a> for more info.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
	})

	t.Run("converts lists and emphasis", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>First</li><li>Second</li></ul><p><strong>bold</strong> and <em>italic</em></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "**bold**")
		assert.Contains(t, md, "*italic*")
	})

	t.Run("converts code blocks with language hint", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<pre><code class="language-go">fmt.Println("hi")</code></pre>`)

		require.NoError(t, err)
		assert.Contains(t, md, "```go")
		assert.Contains(t, md, `fmt.Println("hi")`)
	})

	t.Run("keeps table cells", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><thead><tr><th>Plan</th><th>Price</th></tr></thead><tbody><tr><td>Pro</td><td>$9</td></tr></tbody></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Plan")
		assert.Contains(t, md, "Pro")
	})

	t.Run("collapses blank lines", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("<p>One</p><div></div><div></div><p>Two</p>")

		require.NoError(t, err)
		assert.NotContains(t, md, "\n\n\n")
		assert.False(t, strings.HasSuffix(md, "\n"))
	})

	t.Run("truncates to max runes", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter(htmltomarkdown.WithMaxRunes(10)).Convert("<p>" + strings.Repeat("word ", 20) + "</p>")

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(md, aeo.Ellipsis))
		assert.LessOrEqual(t, utf8.RuneCountInString(md), 10+utf8.RuneCountInString(aeo.Ellipsis))
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert(" \n ")

		require.Error(t, err)
		assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(err))
	})
}
