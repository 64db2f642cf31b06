package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/aeo"
	main "github.com/fwojciec/aeo/cmd/aeo"
	"github.com/fwojciec/aeo/analysis"
	"github.com/fwojciec/aeo/fs"
	"github.com/fwojciec/aeo/goquery"
	"github.com/fwojciec/aeo/inmem"
	"github.com/stretchr/testify/require"
)

const mlRecord = `id: intro-to-ml
title: Introduction to Machine Learning
body: >-
  <h2>What is machine learning?</h2>
  <p>Machine learning is a field of artificial intelligence that builds models from data.
  Neural networks and gradient descent are common building blocks for these models.</p>
topics: [Machine Learning, Artificial Intelligence]
keywords: [AI, ML]
schema_type: Article
canonical_url: https://example.com/blog/intro-to-ml
author: Dana Reyes
published_at: 2026-01-15T10:00:00Z
modified_at: 2026-01-20T10:00:00Z
`

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// writeFile writes content to name inside dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testDeps returns dependencies backed by in-memory services and the
// heuristic provider. remote, if non-nil, is registered as "gemini".
func testDeps(remote aeo.SuggestionProvider) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	ledger := inmem.NewUsageLedger(aeo.DefaultLimits())
	ledger.Now = func() time.Time { return fixedNow }

	basic := goquery.NewProvider()
	basic.Now = func() time.Time { return fixedNow }
	a := &analysis.Analyzer{
		Basic:  analysis.Provider{Provider: basic, Info: basic.Info()},
		Remote: map[string]analysis.Provider{},
		Ledger: ledger,
	}
	if remote != nil {
		a.Remote["gemini"] = analysis.Provider{
			Provider: remote,
			Info:     aeo.ProviderInfo{Name: "Gemini AI Analysis", QualityRating: 4, EstimatedTime: 3},
			Rates:    aeo.RateTable{CostPerToken: 0.001},
		}
	}

	compiler := aeo.NewCompiler(aeo.NewDefaultRegistry(), aeo.Site{
		Origin:        "https://example.com",
		PublisherName: "Example",
		PublisherURL:  "https://example.com",
	})
	compiler.Now = func() time.Time { return fixedNow }

	return &main.Dependencies{
		Ctx:           context.Background(),
		Stdout:        stdout,
		Stderr:        stderr,
		Config:        main.DefaultConfig(),
		Compiler:      compiler,
		Store:         fs.NewContentStore(),
		Analyzer:      a,
		Ledger:        ledger,
		Optimizations: inmem.NewOptimizationService(),
		Now:           func() time.Time { return fixedNow },
	}, stdout, stderr
}

// aiResult returns a remote provider result costing cost.
func aiResult(cost float64) *aeo.ContentAnalysisResult {
	r := &aeo.ContentAnalysisResult{ContentType: "tutorial"}
	r.Suggestions.Keywords = []aeo.SuggestionItem{
		{Name: "machine learning basics", Kind: aeo.KindKeyword, Confidence: 90},
		{Name: "neural networks", Kind: aeo.KindKeyword, Confidence: 80},
	}
	r.Suggestions.Tags = []aeo.SuggestionItem{
		{Name: "Machine Learning", Kind: aeo.KindTag, Confidence: 85},
	}
	r.Metadata.Provider = "gemini"
	r.Metadata.Model = "gemini-2.5-flash"
	r.Metadata.Cost = cost
	return r
}
