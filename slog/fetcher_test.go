package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/mock"
	aeoslog "github.com/fwojciec/aeo/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	page := "<html><body><p>Read replicas spread load.</p></body></html>"
	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			if url == "https://example.com/missing" {
				return "", aeo.Errorf(aeo.ENOTFOUND, "page not found: %s", url)
			}
			return page, nil
		},
	}

	t.Run("logs page size at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := aeoslog.NewLoggingFetcher(inner, debugLogger(&buf))

		html, err := fetcher.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, page, html)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, `msg="page fetch"`)
		assert.Contains(t, output, "url=https://example.com/post")
		assert.Contains(t, output, "words=4")
		assert.Contains(t, output, "duration=")
	})

	t.Run("success is quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := aeoslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := fetcher.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("logs failures with their code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := aeoslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := fetcher.Fetch(context.Background(), "https://example.com/missing")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=not_found")
		assert.Contains(t, output, "url=https://example.com/missing")
	})
}
