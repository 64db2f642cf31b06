// Package gemini implements the AI suggestion provider on Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/aeo"
	"google.golang.org/genai"
)

// ProviderKey identifies the Gemini provider in the analyzer registry.
const ProviderKey = "gemini"

// DefaultModel is the model used when Provider.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// DefaultRates prices Gemini analyses.
var DefaultRates = aeo.RateTable{
	CostPerToken:  0.000001,
	TokensPerWord: aeo.DefaultTokensPerWord,
}

// Ensure Provider implements aeo.SuggestionProvider at compile time.
var _ aeo.SuggestionProvider = (*Provider)(nil)

// GenerateFunc matches genai's Models.GenerateContent.
type GenerateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Provider implements aeo.SuggestionProvider using Google Gemini.
type Provider struct {
	Generate GenerateFunc
	Model    string
	Rates    aeo.RateTable

	// Converter, if set, turns HTML bodies into Markdown before prompting.
	Converter aeo.Converter

	// Tokens counts prompt and response tokens when the API response
	// carries no usage metadata.
	Tokens aeo.TokenCounter

	Now func() time.Time
}

// NewProvider creates a new Provider backed by client.
func NewProvider(client *genai.Client, rates aeo.RateTable) *Provider {
	p := &Provider{Model: DefaultModel, Rates: rates}
	if client != nil {
		p.Generate = client.Models.GenerateContent
	}
	return p
}

// Info describes the provider for selection lists.
func (p *Provider) Info() aeo.ProviderInfo {
	return aeo.ProviderInfo{
		Key:           ProviderKey,
		Name:          "Gemini AI Analysis",
		QualityRating: 4,
		EstimatedTime: 3,
		Free:          p.Rates.IsFree(),
	}
}

// Analyze asks Gemini for suggestions and prices the call from its token usage.
func (p *Provider) Analyze(ctx context.Context, title, content string, opts aeo.AnalyzeOptions) (*aeo.ContentAnalysisResult, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "title or content required")
	}
	if p.Generate == nil {
		return nil, aeo.Errorf(aeo.EPROVIDER, "gemini client not configured")
	}
	opts = opts.WithDefaults()

	body := content
	if p.Converter != nil {
		if md, err := p.Converter.Convert(content); err == nil && md != "" {
			body = md
		}
	}
	prompt := BuildUserPrompt(title, body, opts)

	resp, err := p.Generate(ctx, p.model(),
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, aeo.Errorf(aeo.EPROVIDER, "gemini request failed: %v", err)
	}
	if resp == nil {
		return nil, aeo.Errorf(aeo.EPROVIDER, "gemini returned nil result")
	}

	text := resp.Text()
	result, err := ParseResponse(text)
	if err != nil {
		return nil, err
	}
	limit(result, opts)

	tokens, err := p.usedTokens(ctx, resp, prompt, text)
	if err != nil {
		return nil, err
	}
	result.Metadata.Provider = ProviderKey
	result.Metadata.Model = p.model()
	result.Metadata.Cost = aeo.TokenCost(tokens, p.Rates)
	result.Metadata.WordCount = aeo.CountWords(content)
	result.Metadata.AnalyzedAt = p.now()
	result.Normalize()
	return result, nil
}

// usedTokens prefers the API's usage report and falls back to counting
// prompt and response locally.
func (p *Provider) usedTokens(ctx context.Context, resp *genai.GenerateContentResponse, prompt, text string) (int, error) {
	if u := resp.UsageMetadata; u != nil && u.TotalTokenCount > 0 {
		return int(u.TotalTokenCount), nil
	}
	if p.Tokens == nil {
		return int(float64(aeo.CountWords(prompt)+aeo.CountWords(text)) * tokensPerWord(p.Rates)), nil
	}
	in, err := p.Tokens.CountTokens(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("count prompt tokens: %w", err)
	}
	out, err := p.Tokens.CountTokens(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("count response tokens: %w", err)
	}
	return in + out, nil
}

func (p *Provider) model() string {
	if p.Model == "" {
		return DefaultModel
	}
	return p.Model
}

func (p *Provider) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}

func tokensPerWord(r aeo.RateTable) float64 {
	if r.TokensPerWord <= 0 {
		return aeo.DefaultTokensPerWord
	}
	return r.TokensPerWord
}

func limit(r *aeo.ContentAnalysisResult, opts aeo.AnalyzeOptions) {
	r.Suggestions.Tags = head(r.Suggestions.Tags, opts.MaxTags)
	r.Suggestions.Keywords = head(r.Suggestions.Keywords, opts.MaxKeywords)
	r.Suggestions.Topics = head(r.Suggestions.Topics, opts.MaxTopics)
	r.Suggestions.FAQs = head(r.Suggestions.FAQs, opts.MaxFAQs)
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a content analysis expert helping a publisher optimize blog posts for search engines and answer engines. " +
					"Base every suggestion on the actual content. Avoid generic tags such as blog, tips or guide. " +
					"Respond with a single JSON object and nothing else.",
			}},
		},
		Temperature:      &temp,
		MaxOutputTokens:  2000,
		ResponseMIMEType: "application/json",
	}
}

// BuildUserPrompt builds the prompt describing the post and the expected
// response shape.
func BuildUserPrompt(title, content string, opts aeo.AnalyzeOptions) string {
	opts = opts.WithDefaults()
	var sb strings.Builder
	sb.WriteString("<post>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	fmt.Fprintf(&sb, "<content>%s</content>\n", content)
	sb.WriteString("</post>\n\n")
	if len(opts.KnownTags) > 0 {
		fmt.Fprintf(&sb, "Existing site tags (prefer these when relevant): %s\n\n", strings.Join(opts.KnownTags, ", "))
	}
	fmt.Fprintf(&sb, "Suggest up to %d specific tags, %d keywords with real search potential, %d focused topics and %d FAQs answerable from the content.\n",
		opts.MaxTags, opts.MaxKeywords, opts.MaxTopics, opts.MaxFAQs)
	sb.WriteString("Confidences are integers from 0 to 100. search_intent is one of informational, navigational, transactional or commercial.\n")
	sb.WriteString("Respond with JSON in exactly this shape:\n")
	sb.WriteString(responseShape)
	return sb.String()
}

const responseShape = `{
  "tags": [{"name": "...", "confidence": 85, "reason": "..."}],
  "keywords": [{"name": "...", "confidence": 90, "reason": "...", "search_intent": "informational"}],
  "topics": [{"name": "...", "confidence": 80, "reason": "..."}],
  "faqs": [{"question": "...", "answer": "...", "confidence": 75, "type": "generated"}],
  "content_type": "tutorial",
  "reading_time": 3,
  "quality_score": 82,
  "seo_score": 75,
  "improvements": ["..."]
}`

type responseItem struct {
	Name         string `json:"name"`
	Confidence   int    `json:"confidence"`
	Reason       string `json:"reason"`
	SearchIntent string `json:"search_intent"`
}

type response struct {
	Tags         []responseItem      `json:"tags"`
	Keywords     []responseItem      `json:"keywords"`
	Topics       []responseItem      `json:"topics"`
	FAQs         []aeo.FAQSuggestion `json:"faqs"`
	ContentType  string              `json:"content_type"`
	ReadingTime  int                 `json:"reading_time"`
	QualityScore *int                `json:"quality_score"`
	SEOScore     *int                `json:"seo_score"`
	Improvements []string            `json:"improvements"`
}

// ParseResponse decodes a model reply into an analysis result. Markdown
// fences and prose around the JSON object are ignored. Unparseable replies
// return EPROVIDER.
func ParseResponse(text string) (*aeo.ContentAnalysisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, aeo.Errorf(aeo.EPROVIDER, "gemini response contains no JSON object")
	}

	var r response
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return nil, aeo.Errorf(aeo.EPROVIDER, "invalid gemini response: %v", err)
	}

	result := &aeo.ContentAnalysisResult{
		ContentType:        r.ContentType,
		ReadingTimeMinutes: r.ReadingTime,
	}
	if result.ContentType == "" {
		result.ContentType = "blog_post"
	}
	result.Suggestions.Tags = items(r.Tags, aeo.KindTag)
	result.Suggestions.Keywords = items(r.Keywords, aeo.KindKeyword)
	result.Suggestions.Topics = items(r.Topics, aeo.KindTopic)
	for _, f := range r.FAQs {
		if f.Type == "" {
			f.Type = "generated"
		}
		result.Suggestions.FAQs = append(result.Suggestions.FAQs, f)
	}
	result.Metadata.QualityScore = clampScore(r.QualityScore)
	result.Metadata.SEOScore = clampScore(r.SEOScore)
	result.Metadata.Improvements = r.Improvements
	return result, nil
}

func items(in []responseItem, kind aeo.SuggestionKind) []aeo.SuggestionItem {
	out := make([]aeo.SuggestionItem, 0, len(in))
	for _, it := range in {
		item := aeo.SuggestionItem{
			Name:       it.Name,
			Kind:       kind,
			Confidence: it.Confidence,
			Provenance: aeo.ProvenanceAI,
			Reasoning:  it.Reason,
		}
		if kind == aeo.KindKeyword {
			item.SearchIntent = it.SearchIntent
		}
		out = append(out, item)
	}
	return out
}

func clampScore(v *int) *int {
	if v == nil {
		return nil
	}
	c := aeo.ClampConfidence(*v)
	return &c
}
