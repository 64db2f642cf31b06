package goquery

import (
	"regexp"
	"strings"
)

// Content types returned by classify.
const (
	TypeTutorial = "tutorial"
	TypeReview   = "review"
	TypeNews     = "news"
	TypeGuide    = "guide"
	TypeAnalysis = "analysis"
	TypeBlogPost = "blog_post"
)

// minClassifyScore is the score below which content counts as a blog post.
const minClassifyScore = 3

type structureCheck func(content string) float64

type classRule struct {
	contentType string
	weight      float64
	title       []*regexp.Regexp
	content     []*regexp.Regexp
	structure   []structureCheck
}

func matches(re string) structureCheck {
	r := regexp.MustCompile(re)
	return func(content string) float64 {
		if r.MatchString(content) {
			return 1
		}
		return 0
	}
}

func atLeast(re string, n int, score float64) structureCheck {
	r := regexp.MustCompile(re)
	return func(content string) float64 {
		if len(r.FindAllStringIndex(content, -1)) >= n {
			return score
		}
		return 0
	}
}

func scaled(check structureCheck, factor float64) structureCheck {
	return func(content string) float64 { return check(content) * factor }
}

var classRules = []classRule{
	{
		contentType: TypeTutorial,
		weight:      3,
		title: mustCompile(
			`\b(how to|tutorial|guide|step by step|learn|build|create|setup|install)\b`,
			`\b(building|creating|making|developing|implementing)\b`,
		),
		content: mustCompile(
			`\b(step \d+|first,|second,|third,|next,|then,|finally,|installation)`,
			`\b(let's|we'll|you'll|we will|you will)\b`,
		),
		structure: []structureCheck{
			matches(`\b\d+\.\s+`),
			atLeast(`(?i)\b(step \d+|first,|second,|third,|next,|then,|finally)`, 3, 1.5),
		},
	},
	{
		contentType: TypeReview,
		weight:      3,
		title: mustCompile(
			`\b(review|comparison|vs|versus|compare|analysis|evaluation)\b`,
			`\b(best|top \d+|rating|benchmark)\b`,
		),
		content: mustCompile(
			`\b(pros|cons|advantages|disadvantages|rating|score|performance)\b`,
			`\b(recommend|not recommend|better|worse|superior|inferior)\b`,
		),
		structure: []structureCheck{
			matches(`<table|<th|<td`),
			matches(`(?i)\b\d+/\d+|★|\bstars?\b|\brating\b`),
		},
	},
	{
		contentType: TypeNews,
		weight:      2,
		title: mustCompile(
			`\b(news|announced|released|update|launch|breaking|latest)\b`,
			`\b(20\d\d|just|recently|today|yesterday)\b`,
		),
		content: mustCompile(
			`\b(announced|released|launched|unveiled|introduced|yesterday|today)\b`,
			`\b(according to|sources|reports|official|statement)\b`,
		),
		structure: []structureCheck{
			scaled(matches(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|\d{4})`), 0.5),
			scaled(matches(`(?i)\b(source|according to|via|citation|reference)`), 0.5),
		},
	},
	{
		contentType: TypeGuide,
		weight:      2,
		title: mustCompile(
			`\b(guide|handbook|manual|reference|complete|comprehensive|ultimate)\b`,
			`\b(introduction|getting started|beginner|basics)\b`,
		),
		content: mustCompile(
			`\b(overview|introduction|chapter|section|fundamentals|concepts)\b`,
			`\b(understand|learn|know|important|essential|key)\b`,
		),
		structure: []structureCheck{
			matches(`(?i)table of contents|contents:`),
			atLeast(`<h[2-6]`, 3, 1),
		},
	},
	{
		contentType: TypeAnalysis,
		weight:      2,
		title: mustCompile(
			`\b(analysis|deep dive|exploration|investigation|study|research)\b`,
			`\b(why|understanding|behind|theory|concept)\b`,
		),
		content: mustCompile(
			`\b(analyze|examine|investigate|research|study|conclusion)\b`,
			`\b(hypothesis|theory|evidence|findings|results|data)\b`,
		),
		structure: []structureCheck{
			atLeast(`(?i)\d+%|\$\d+|\b\d+ users?\b|\b\d+ times?\b`, 2, 1),
			scaled(matches(`(?i)\b(conclusion|summary|results?|findings?|takeaways?)`), 0.5),
		},
	},
	{
		contentType: TypeBlogPost,
		weight:      1,
		title: mustCompile(
			`\b(thoughts|opinion|experience|story|journey|reflection)\b`,
			`\b(my|our|personal|sharing|lessons learned)\b`,
		),
		content: mustCompile(
			`\b(i think|in my opinion|personally|i believe|experience|learned)\b`,
			`\b(recently|last week|yesterday|today|when i)\b`,
		),
		structure: []structureCheck{
			atLeast(`(?i)\b(i|my|me|our|we|us)\b`, 5, 0.5),
			scaled(matches(`(?i)\b(story|experience|happened|remember|once)`), 0.5),
		},
	},
}

func mustCompile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// classify returns the best scoring content type, or blog_post when no type
// scores at least minClassifyScore. Earlier rules win ties.
func classify(title, content string) string {
	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)

	best, bestScore := TypeBlogPost, 0.0
	for _, rule := range classRules {
		score := rule.score(titleLower, contentLower, content)
		if score > bestScore {
			best, bestScore = rule.contentType, score
		}
	}
	if bestScore < minClassifyScore {
		return TypeBlogPost
	}
	return best
}

func (r classRule) score(titleLower, contentLower, content string) float64 {
	var score float64
	for _, re := range r.title {
		if re.MatchString(titleLower) {
			score += r.weight
		}
	}
	for _, re := range r.content {
		if n := len(re.FindAllStringIndex(contentLower, -1)); n > 0 {
			score += float64(min(n, 3)) * r.weight * 0.5
		}
	}
	for _, check := range r.structure {
		score += check(content)
	}
	return score
}
