// Package slog provides log/slog decorators for aeo services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/aeo"
)

// Ensure LoggingProvider implements aeo.SuggestionProvider.
var _ aeo.SuggestionProvider = (*LoggingProvider)(nil)

// LoggingProvider wraps a SuggestionProvider with logging.
type LoggingProvider struct {
	next   aeo.SuggestionProvider
	name   string
	logger *slog.Logger
}

// NewLoggingProvider creates a new LoggingProvider. name identifies the
// wrapped provider in log records.
func NewLoggingProvider(next aeo.SuggestionProvider, name string, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{next: next, name: name, logger: logger}
}

// Analyze delegates to the wrapped provider and logs the outcome.
func (p *LoggingProvider) Analyze(ctx context.Context, title, content string, opts aeo.AnalyzeOptions) (result *aeo.ContentAnalysisResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"provider", p.name,
			"title", title,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs,
				"keywords", len(result.Suggestions.Keywords),
				"tags", len(result.Suggestions.Tags),
				"faqs", len(result.Suggestions.FAQs),
				"cost", result.Metadata.Cost,
			)
		}
		if err != nil {
			p.logger.Warn("analysis", append(attrs, "code", aeo.ErrorCode(err), "err", err)...)
			return
		}
		p.logger.Info("analysis", attrs...)
	}(time.Now())
	return p.next.Analyze(ctx, title, content, opts)
}
