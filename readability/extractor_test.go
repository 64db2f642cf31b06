package readability_test

import (
	"testing"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewPage = `<!DOCTYPE html>
<html>
<head><title>Field Notes: The Kestrel 2 Headphones</title></head>
<body>
<nav><a href="/">Home Nav Link</a><a href="/reviews">Reviews Nav Link</a></nav>
<aside class="sidebar"><h3>Popular</h3><a href="/x">Sidebar Popular Link</a></aside>
<article>
<h1>The Kestrel 2 Headphones</h1>
<p class="byline">By Sam Okafor</p>
<p>The Kestrel 2 keeps the light frame of the original and adds a quieter noise cancelling mode that works well on trains.</p>
<p>Battery life sits around thirty hours, which covers a week of commuting without a charge, and the case folds flat.</p>
<p>Call quality is the weak point; voices sound thin outdoors, though indoors the microphones are perfectly clear.</p>
</article>
<footer><p>Footer copyright text 2026</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("  ")

		assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(err))
	})

	t.Run("extracts the article body", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(reviewPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "thirty hours")
		assert.Contains(t, result.ContentHTML, "Call quality is the weak point")
	})

	t.Run("drops page chrome", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(reviewPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "Home Nav Link")
		assert.NotContains(t, result.ContentHTML, "Sidebar Popular Link")
		assert.NotContains(t, result.ContentHTML, "Footer copyright text")
	})

	t.Run("extracts the title", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(reviewPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.Title, "Kestrel 2")
	})
}
