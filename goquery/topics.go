package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/aeo"
)

var topicTerms = []string{
	"Laravel", "PHP", "JavaScript", "Vue.js", "React", "Node.js", "Go",
	"Docker", "MySQL", "Redis", "API", "REST", "GraphQL",
	"Authentication", "Security", "Performance", "Testing",
	"Coaching", "Leadership", "Management", "Communication", "Business",
	"Productivity", "Professional Development", "Team Building", "Psychology",
	"Self-Improvement", "Education", "Sales", "Marketing", "Strategy",
}

var businessKeywords = []string{
	"coaching", "leadership", "management", "communication",
	"business", "questions", "habits", "development",
}

const headingSelector = "h1, h2, h3, h4, h5, h6"

// extractTopics collects known subject names, business themes among the
// keywords and short declarative headings, in that order.
func extractTopics(title, content string, keywords []string, doc *goquery.Document, limit int) []string {
	combined := title + " " + content

	seen := make(map[string]struct{})
	var topics []string
	push := func(topic string) {
		key := aeo.NormalizeName(topic)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		topics = append(topics, topic)
	}

	for _, term := range topicTerms {
		if containsTerm(combined, term) {
			push(term)
		}
	}
	for _, kw := range keywords {
		kwLower := strings.ToLower(kw)
		for _, b := range businessKeywords {
			if strings.Contains(kwLower, b) || strings.Contains(b, kwLower) {
				push(strings.ToUpper(b[:1]) + b[1:])
				break
			}
		}
	}
	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		text := collapse(s.Text())
		n := utf8.RuneCountInString(text)
		if n > 5 && n < 50 && !isQuestion(text) {
			push(text)
		}
	})

	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
