package goquery

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	titleWeight     = 3.0
	contentWeight   = 1.0
	technicalBoost  = 2.0
	maxKeywordCount = 10
)

var stopWords = toSet(
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "from", "up", "about", "into", "through", "during", "before",
	"after", "above", "below", "between", "among", "against",
	"a", "an", "as", "are", "was", "were", "been", "be", "have", "has",
	"had", "do", "does", "did", "will", "would", "could", "should",
	"may", "might", "must", "can", "this", "that", "these", "those",
	"i", "you", "he", "she", "it", "we", "they", "what", "which", "who",
	"when", "where", "why", "how", "all", "any", "both", "each", "few",
	"more", "most", "other", "some", "such", "no", "nor", "not", "only",
	"own", "same", "so", "than", "too", "very", "just", "now",
)

// TechTerms are names that get a scoring boost and feed topic detection.
var TechTerms = []string{
	"Laravel", "PHP", "JavaScript", "TypeScript", "Vue.js", "React", "Angular",
	"Node.js", "Express", "Docker", "Kubernetes", "AWS", "Azure", "GCP",
	"MySQL", "PostgreSQL", "Redis", "MongoDB", "Elasticsearch",
	"API", "REST", "GraphQL", "JSON", "XML", "YAML",
	"Authentication", "Authorization", "JWT", "OAuth", "SAML",
	"Security", "HTTPS", "SSL", "TLS", "CSRF", "XSS",
	"Performance", "Optimization", "Caching", "CDN",
	"Testing", "Unit Testing", "Integration Testing", "E2E",
	"CI/CD", "Git", "GitHub", "GitLab", "Bitbucket",
	"Webpack", "Vite", "npm", "Composer", "Go",
}

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s\-.]`)
	camelCaseRe  = regexp.MustCompile(`\b[a-z]+[A-Z][a-zA-Z]*\b`)
	properNounRe = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)
)

// extractKeywords scores terms of the title and content by weighted term
// frequency and returns the best ones, highest score first.
func extractKeywords(title, content string) []string {
	scores := make(map[string]float64)
	display := make(map[string]string)
	var order []string
	add := func(term string, score float64) {
		key := strings.ToLower(term)
		if _, ok := scores[key]; !ok {
			order = append(order, key)
			display[key] = term
		}
		scores[key] += score
	}

	for _, text := range []struct {
		s      string
		weight float64
	}{{title, titleWeight}, {content, contentWeight}} {
		scored := termScores(text.s, text.weight)
		terms := make([]string, 0, len(scored))
		for term := range scored {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			add(term, scored[term])
		}
	}
	for _, term := range technicalTerms(title + " " + content) {
		add(term, technicalBoost)
	}

	sort.Strings(order)
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if len(order) > maxKeywordCount {
		order = order[:maxKeywordCount]
	}
	out := make([]string, len(order))
	for i, key := range order {
		out[i] = display[key]
	}
	return out
}

// termScores returns tf * weight * length boost * capitalization boost for
// every eligible word of text.
func termScores(text string, weight float64) map[string]float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return nil
	}
	freq := make(map[string]int)
	for _, w := range words {
		freq[w]++
	}

	scores := make(map[string]float64, len(freq))
	total := float64(len(words))
	for word, n := range freq {
		if !eligible(word) {
			continue
		}
		lengthBoost := min(2.0, float64(len(word))/5)
		capBoost := 1.0
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(r) {
			capBoost = 1.2
		}
		scores[word] = float64(n) / total * weight * lengthBoost * capBoost
	}
	return scores
}

func tokenize(text string) []string {
	text = nonWordRe.ReplaceAllString(text, " ")
	var words []string
	for _, f := range strings.Fields(text) {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

func eligible(word string) bool {
	if _, ok := stopWords[strings.ToLower(word)]; ok {
		return false
	}
	if len(word) <= 2 || len(word) >= 30 {
		return false
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return false
	}
	return true
}

// technicalTerms finds known technology names, camelCase identifiers and
// capitalized words that look like proper nouns.
func technicalTerms(text string) []string {
	seen := make(map[string]struct{})
	var terms []string
	push := func(term string) {
		if len(term) <= 2 || len(term) >= 30 {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, term := range TechTerms {
		if containsTerm(text, term) {
			push(term)
		}
	}
	for _, m := range camelCaseRe.FindAllString(text, -1) {
		if len(m) > 3 {
			push(m)
		}
	}
	for _, m := range properNounRe.FindAllString(text, -1) {
		if _, ok := stopWords[strings.ToLower(m)]; !ok {
			push(m)
		}
	}
	return terms
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
