package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogPage = `<!DOCTYPE html>
<html>
<head>
<title>Scaling Postgres Reads | Example Engineering</title>
<meta property="og:site_name" content="Example Engineering">
<meta name="author" content="Dana Reyes">
</head>
<body>
<nav class="main-nav"><a href="/">Home</a><a href="/blog">Blog</a><a href="/about">About</a></nav>
<article>
<h1>Scaling Postgres Reads</h1>
<p>Read replicas let you spread query load across several servers while a single primary accepts writes.</p>
<h2>When should you add a replica?</h2>
<p>Add a replica once the primary spends most of its time serving reads and latency starts to climb.</p>
<pre><code>SELECT pg_is_in_recovery();</code></pre>
</article>
<footer><p>Copyright 2026 Example Corp</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article body", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(blogPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Read replicas let you spread query load")
		assert.Contains(t, result.ContentHTML, "pg_is_in_recovery")
	})

	t.Run("removes navigation and footer", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(blogPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "main-nav")
		assert.NotContains(t, result.ContentHTML, "Copyright 2026 Example Corp")
	})

	t.Run("extracts title without site name", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(blogPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.NotContains(t, result.Title, "| Example Engineering")
	})

	t.Run("extracts author", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(blogPage)

		require.NoError(t, err)
		assert.Contains(t, result.Author, "Dana Reyes")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		require.Error(t, err)
		assert.Equal(t, aeo.EINVALID, aeo.ErrorCode(err))
	})
}
