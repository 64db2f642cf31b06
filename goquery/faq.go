package goquery

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/aeo"
)

// FAQ sources, reported in the Type field of suggestions.
const (
	FAQExplicit = "explicit_qa"
	FAQHeading  = "heading_question"
	FAQBold     = "bold_question"
	FAQTemplate = "generated"
)

var (
	questionRe = regexp.MustCompile(`(?i)\b(what (is|are|does|do|can|should|will)|how (to|do|does|can|should|will|long|much)|why (do|does|should|would|is|are)|when (to|do|does|should|would|is)|where (to|do|does|should|can|is)|which (is|are|do|does|should|can)|can (you|i|we|it)|is (it|there|this)|are (there|these|they))\b`)
	qMarkerRe  = regexp.MustCompile(`(?i)\bQ:`)
	aMarkerRe  = regexp.MustCompile(`(?i)\bA:`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

var faqTemplates = []struct {
	category string
	question string
	keywords []string
}{
	{"installation", "How do I install this?", []string{"install", "installation", "setup", "composer", "npm"}},
	{"configuration", "How do I configure this?", []string{"config", "configuration", "settings", "environment"}},
	{"troubleshooting", "What are common issues and solutions?", []string{"error", "problem", "issue", "troubleshoot", "fix"}},
	{"best_practices", "What are the best practices?", []string{"best practice", "recommend", "should", "avoid"}},
	{"performance", "How can I improve performance?", []string{"performance", "optimization", "speed", "cache"}},
	{"security", "How do I secure this implementation?", []string{"security", "secure", "protection", "vulnerability"}},
}

// detectFAQs finds question and answer pairs from explicit Q:/A: markers,
// question headings, bold questions and keyword templates, in that order
// of preference. Duplicate questions keep the first occurrence.
func detectFAQs(text string, doc *goquery.Document, limit int) []aeo.FAQSuggestion {
	var faqs []aeo.FAQSuggestion
	faqs = append(faqs, explicitFAQs(text)...)
	faqs = append(faqs, headingFAQs(doc)...)
	faqs = append(faqs, boldFAQs(doc)...)
	faqs = append(faqs, templateFAQs(text)...)

	seen := make(map[string]struct{}, len(faqs))
	out := faqs[:0]
	for _, faq := range faqs {
		key := aeo.NormalizeName(faq.Question)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, faq)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func isQuestion(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasSuffix(text, "?") || questionRe.MatchString(text)
}

func explicitFAQs(text string) []aeo.FAQSuggestion {
	marks := qMarkerRe.FindAllStringIndex(text, -1)
	var faqs []aeo.FAQSuggestion
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		block := text[m[1]:end]
		a := aMarkerRe.FindStringIndex(block)
		if a == nil {
			continue
		}
		q := strings.TrimSpace(block[:a[0]])
		ans := strings.TrimSpace(block[a[1]:])
		if q == "" || ans == "" {
			continue
		}
		faqs = append(faqs, aeo.FAQSuggestion{Question: q, Answer: ans, Confidence: 95, Type: FAQExplicit})
	}
	return faqs
}

// headingFAQs uses the text between a question heading and the next heading
// as its answer.
func headingFAQs(doc *goquery.Document) []aeo.FAQSuggestion {
	var faqs []aeo.FAQSuggestion
	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		q := collapse(s.Text())
		if !isQuestion(q) {
			return
		}
		answer := collapse(s.NextUntil(headingSelector).Text())
		if n := utf8.RuneCountInString(answer); n <= 20 || n >= 500 {
			return
		}
		faqs = append(faqs, aeo.FAQSuggestion{Question: q, Answer: answer, Confidence: 80, Type: FAQHeading})
	})
	return faqs
}

// boldFAQs uses the first sentence following a bold question as its answer.
func boldFAQs(doc *goquery.Document) []aeo.FAQSuggestion {
	var faqs []aeo.FAQSuggestion
	doc.Find("b, strong").Each(func(_ int, s *goquery.Selection) {
		q := collapse(s.Text())
		if utf8.RuneCountInString(q) <= 10 || !isQuestion(q) {
			return
		}
		answer := firstSentence(textAfter(s))
		if n := utf8.RuneCountInString(answer); n <= 15 || n >= 300 {
			return
		}
		faqs = append(faqs, aeo.FAQSuggestion{Question: q, Answer: answer, Confidence: 70, Type: FAQBold})
	})
	return faqs
}

// textAfter returns the text that follows s inside its parent block, or the
// text of the parent's next sibling when s ends the block.
func textAfter(s *goquery.Selection) string {
	parent := s.Parent()
	full := collapse(parent.Text())
	own := collapse(s.Text())
	if i := strings.Index(full, own); i >= 0 {
		if rest := strings.TrimSpace(full[i+len(own):]); rest != "" {
			return rest
		}
	}
	return collapse(parent.Next().Text())
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// templateFAQs proposes generic questions when at least two of a template's
// keywords occur, answered by the two most relevant sentences.
func templateFAQs(text string) []aeo.FAQSuggestion {
	var faqs []aeo.FAQSuggestion
	for _, tpl := range faqTemplates {
		var hits int
		for _, kw := range tpl.keywords {
			if containsTerm(text, kw) {
				hits++
			}
		}
		if hits < 2 {
			continue
		}
		answer := relevantSentences(text, tpl.keywords)
		if utf8.RuneCountInString(answer) <= 20 {
			continue
		}
		faqs = append(faqs, aeo.FAQSuggestion{
			Question:   tpl.question,
			Answer:     answer,
			Confidence: 50 + hits*10,
			Type:       FAQTemplate + "_" + tpl.category,
		})
	}
	return faqs
}

func relevantSentences(text string, keywords []string) string {
	type scored struct {
		text  string
		score int
	}
	var sentences []scored
	for _, s := range sentenceRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if n := utf8.RuneCountInString(s); n <= 15 || n >= 500 {
			continue
		}
		var score int
		for _, kw := range keywords {
			if containsTerm(s, kw) {
				score++
			}
		}
		if score > 0 {
			sentences = append(sentences, scored{s, score})
		}
	}
	sort.SliceStable(sentences, func(i, j int) bool {
		return sentences[i].score > sentences[j].score
	})
	if len(sentences) > 2 {
		sentences = sentences[:2]
	}
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = s.text
	}
	return strings.Join(parts, " ")
}
