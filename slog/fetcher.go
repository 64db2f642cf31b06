package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/aeo"
)

// Ensure LoggingFetcher implements aeo.Fetcher.
var _ aeo.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps the page fetcher used by import with logging.
type LoggingFetcher struct {
	next   aeo.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next aeo.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher. Successful fetches are logged at
// debug level with the page size; failures at warn level with their code.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Warn("page fetch",
				"url", url,
				"duration", time.Since(begin),
				"code", aeo.ErrorCode(err),
				"err", err,
			)
			return
		}
		f.logger.Debug("page fetch",
			"url", url,
			"bytes", len(html),
			"words", aeo.CountWords(html),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
