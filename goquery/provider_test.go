package goquery_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newProvider() *goquery.Provider {
	p := goquery.NewProvider()
	p.Now = func() time.Time { return fixedNow }
	return p
}

func names(items []aeo.SuggestionItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func findFAQ(faqs []aeo.FAQSuggestion, question string) (aeo.FAQSuggestion, bool) {
	for _, f := range faqs {
		if f.Question == question {
			return f, true
		}
	}
	return aeo.FAQSuggestion{}, false
}

func TestProvider_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("reports free basic metadata", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Kubernetes Scaling", "<p>Kubernetes scaling keeps clusters healthy under load.</p>", aeo.AnalyzeOptions{})

		require.NoError(t, err)
		assert.Equal(t, goquery.ProviderKey, result.Metadata.Provider)
		assert.Zero(t, result.Metadata.Cost)
		assert.Equal(t, 7, result.Metadata.WordCount)
		assert.Equal(t, fixedNow, result.Metadata.AnalyzedAt)
		assert.Equal(t, 1, result.ReadingTimeMinutes)
		require.NotNil(t, result.Metadata.QualityScore)
		assert.LessOrEqual(t, *result.Metadata.QualityScore, 100)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		title := "How to deploy Go services with Docker"
		content := `<h2>Why containers?</h2><p>Containers package the binary with its runtime so deploys are repeatable.</p>
<p>Step 1: build the image. Step 2: push it. Next, roll it out. Finally, watch the metrics.</p>`

		p := newProvider()
		first, err := p.Analyze(context.Background(), title, content, aeo.AnalyzeOptions{})
		require.NoError(t, err)
		second, err := p.Analyze(context.Background(), title, content, aeo.AnalyzeOptions{})
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("keeps confidences in range with ai provenance", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Advanced API security testing",
			"<p>Testing API security with JWT and OAuth. Security testing catches XSS and CSRF issues early.</p>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		all := append(append(append([]aeo.SuggestionItem{}, result.Suggestions.Keywords...), result.Suggestions.Tags...), result.Suggestions.Topics...)
		require.NotEmpty(t, all)
		for _, item := range all {
			assert.GreaterOrEqual(t, item.Confidence, 0)
			assert.LessOrEqual(t, item.Confidence, 100)
			assert.Equal(t, aeo.ProvenanceAI, item.Provenance)
		}
		for _, faq := range result.Suggestions.FAQs {
			assert.LessOrEqual(t, faq.Confidence, 100)
		}
	})

	t.Run("ranks title terms first among keywords", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Kubernetes Scaling",
			"<p>Kubernetes scaling tips for busy clusters and quiet ones.</p>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		require.NotEmpty(t, result.Suggestions.Keywords)
		assert.Equal(t, "Kubernetes", result.Suggestions.Keywords[0].Name)
		assert.Equal(t, 90, result.Suggestions.Keywords[0].Confidence)
		assert.Equal(t, aeo.KindKeyword, result.Suggestions.Keywords[0].Kind)
	})

	t.Run("respects keyword limit", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Distributed systems primer",
			"<p>Consensus replication partitions latency throughput availability durability consistency quorum leaders followers snapshots.</p>",
			aeo.AnalyzeOptions{MaxKeywords: 3})
		require.NoError(t, err)

		assert.Len(t, result.Suggestions.Keywords, 3)
	})

	t.Run("boosts known tags", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Kubernetes Scaling",
			"<p>Kubernetes scaling tips for clusters.</p>",
			aeo.AnalyzeOptions{KnownTags: []string{"Kubernetes"}})
		require.NoError(t, err)

		require.NotEmpty(t, result.Suggestions.Tags)
		top := result.Suggestions.Tags[0]
		assert.Equal(t, "Kubernetes", top.Name)
		assert.Equal(t, 85, top.Confidence)
		assert.Equal(t, "Matches existing tag", top.Reasoning)
	})

	t.Run("suggests skill level and content type tags", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"A beginner tutorial",
			"<p>This simple walkthrough covers the basics.</p>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		tags := names(result.Suggestions.Tags)
		assert.Contains(t, tags, "Tutorial")
		assert.Contains(t, tags, "Beginner")
	})

	t.Run("uses declarative headings as topics", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Cluster notes",
			"<h2>Cluster Autoscaling Basics</h2><p>Nodes join the pool when demand grows.</p><h2>Is this expensive?</h2><p>Sometimes it is.</p>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		topics := names(result.Suggestions.Topics)
		assert.Contains(t, topics, "Cluster Autoscaling Basics")
		assert.NotContains(t, topics, "Is this expensive?")
	})

	t.Run("detects explicit question and answer pairs", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"AEO basics",
			"<p>Q: What is AEO? A: Answer engine optimization structures content.</p>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		faq, ok := findFAQ(result.Suggestions.FAQs, "What is AEO?")
		require.True(t, ok)
		assert.Equal(t, "Answer engine optimization structures content.", faq.Answer)
		assert.Equal(t, 95, faq.Confidence)
		assert.Equal(t, goquery.FAQExplicit, faq.Type)
	})

	t.Run("answers question headings with the following section", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Installing the CLI",
			"<h2>How do I install the CLI?</h2><p>Run the installer script and follow the prompts on screen.</p><h2>Next steps</h2>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		faq, ok := findFAQ(result.Suggestions.FAQs, "How do I install the CLI?")
		require.True(t, ok)
		assert.Equal(t, "Run the installer script and follow the prompts on screen.", faq.Answer)
		assert.Equal(t, 80, faq.Confidence)
		assert.Equal(t, goquery.FAQHeading, faq.Type)
	})

	t.Run("answers bold questions with the next sentence", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"Structured data",
			"<p><strong>Why should I care about schema?</strong> Because answer engines read structured data. More text follows.</p>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		faq, ok := findFAQ(result.Suggestions.FAQs, "Why should I care about schema?")
		require.True(t, ok)
		assert.Equal(t, "Because answer engines read structured data", faq.Answer)
		assert.Equal(t, 70, faq.Confidence)
	})

	t.Run("limits faqs", func(t *testing.T) {
		t.Parallel()

		content := "<p>Q: What is one? A: The first number. Q: What is two? A: The second number. Q: What is three? A: The third number.</p>"
		result, err := newProvider().Analyze(context.Background(), "Numbers explained", content, aeo.AnalyzeOptions{MaxFAQs: 2})
		require.NoError(t, err)

		require.Len(t, result.Suggestions.FAQs, 2)
		assert.Equal(t, "What is one?", result.Suggestions.FAQs[0].Question)
		assert.Equal(t, "What is two?", result.Suggestions.FAQs[1].Question)
	})

	t.Run("classifies step by step content as tutorial", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(),
			"How to build a CLI in Go",
			"<p>Step 1: install Go. Step 2: write main. Next, run it. Finally, ship it.</p>",
			aeo.AnalyzeOptions{})
		require.NoError(t, err)

		assert.Equal(t, goquery.TypeTutorial, result.ContentType)
	})

	t.Run("falls back to blog post", func(t *testing.T) {
		t.Parallel()

		result, err := newProvider().Analyze(context.Background(), "Hello there", "<p>Some words here.</p>", aeo.AnalyzeOptions{})
		require.NoError(t, err)

		assert.Equal(t, goquery.TypeBlogPost, result.ContentType)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newProvider().Analyze(ctx, "Title here", "<p>Body text.</p>", aeo.AnalyzeOptions{})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestProvider_Info(t *testing.T) {
	t.Parallel()

	info := goquery.NewProvider().Info()

	assert.Equal(t, goquery.ProviderKey, info.Key)
	assert.True(t, info.Free)
	assert.Equal(t, 2, info.QualityRating)
}
