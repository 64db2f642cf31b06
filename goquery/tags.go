package goquery

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fwojciec/aeo"
)

type tagPattern struct {
	tag      string
	patterns []string
}

var techTagPatterns = []tagPattern{
	{"Laravel", []string{"laravel", "artisan", "eloquent", "blade"}},
	{"PHP", []string{"php", "namespace"}},
	{"JavaScript", []string{"javascript", "js", "jquery", "dom", "ajax"}},
	{"Vue.js", []string{"vue", "vuejs", "vue.js", "directive"}},
	{"React", []string{"react", "jsx", "props"}},
	{"Go", []string{"golang", "goroutine", "go module"}},
	{"API", []string{"api", "endpoint", "rest", "json", "http"}},
	{"Database", []string{"database", "mysql", "sql", "query", "migration"}},
	{"Authentication", []string{"auth", "login", "password", "token", "session"}},
	{"Testing", []string{"test", "testing", "phpunit", "assertion", "mock"}},
	{"Performance", []string{"performance", "optimization", "cache", "speed", "memory"}},
	{"Security", []string{"security", "csrf", "xss", "encryption", "hash"}},
	{"Docker", []string{"docker", "container", "dockerfile", "compose"}},
	{"Git", []string{"git", "github", "commit", "branch", "merge"}},
	{"Coaching", []string{"coaching", "coach", "mentor", "mentoring", "guidance"}},
	{"Leadership", []string{"leadership", "leader", "leading", "management", "manager"}},
	{"Communication", []string{"communication", "conversation", "dialogue", "listening"}},
	{"Professional Development", []string{"professional development", "career growth", "skills development"}},
	{"Business", []string{"business", "strategy", "entrepreneurship", "corporate", "workplace"}},
	{"Productivity", []string{"productivity", "efficiency", "time management", "habits", "workflow"}},
	{"Team Building", []string{"team building", "teamwork", "collaboration"}},
	{"Psychology", []string{"psychology", "behavior", "mindset"}},
	{"Self-Improvement", []string{"self-improvement", "personal growth"}},
	{"Book Summary", []string{"book summary", "book review", "key insights", "takeaways"}},
	{"Education", []string{"education", "learning", "teaching", "training", "instruction"}},
	{"Sales", []string{"sales", "selling", "negotiation"}},
}

type typePattern struct {
	tag     string
	title   []string
	content []string
}

var contentTypeTagPatterns = []typePattern{
	{"Tutorial", []string{"how to", "tutorial", "guide", "step by step", "learn"}, []string{"step 1", "first,", "next,", "finally,", "installation"}},
	{"Review", []string{"review", "comparison", "vs", "versus", "compare"}, []string{"pros", "cons", "advantages", "disadvantages", "rating"}},
	{"News", []string{"news", "announced", "released", "update"}, []string{"announced", "new version"}},
	{"Beginner Guide", []string{"beginner", "introduction", "getting started", "basics"}, []string{"beginner", "introduction"}},
	{"Advanced", []string{"advanced", "expert", "deep dive", "mastering"}, []string{"sophisticated", "expert"}},
	{"Best Practices", []string{"best practices", "tips", "recommendations"}, []string{"best practice", "recommend"}},
}

// contentTypeTags get a confidence bonus.
var contentTypeTags = toSet("Tutorial", "Review", "Guide", "News", "Tips")

var skillLevels = []struct {
	tag string
	re  *regexp.Regexp
}{
	{"Beginner", regexp.MustCompile(`(?i)\b(beginner|basic|introduction|getting started|simple|easy|first time)\b`)},
	{"Intermediate", regexp.MustCompile(`(?i)\b(intermediate|moderate|practical|implementation|building)\b`)},
	{"Advanced", regexp.MustCompile(`(?i)\b(advanced|expert|complex|optimization|architecture|deep dive|mastering)\b`)},
}

// suggestTags combines known-tag matches, technology and soft-skill
// detection, content type and skill level into ranked tag suggestions.
func suggestTags(title, content string, keywords []string, opts aeo.AnalyzeOptions) []aeo.SuggestionItem {
	combined := title + " " + content

	known := make(map[string]struct{}, len(opts.KnownTags))
	for _, tag := range opts.KnownTags {
		known[aeo.NormalizeName(tag)] = struct{}{}
	}
	techTags := make(map[string]struct{})
	for _, term := range TechTerms {
		techTags[term] = struct{}{}
	}

	var names []string
	names = append(names, matchKnownTags(keywords, opts.KnownTags)...)
	for _, p := range techTagPatterns {
		if containsAny(combined, p.patterns) {
			names = append(names, p.tag)
		}
	}
	for _, p := range contentTypeTagPatterns {
		if containsAny(title, p.title) || containsAny(content, p.content) {
			names = append(names, p.tag)
		}
	}
	for _, level := range skillLevels {
		if level.re.MatchString(combined) {
			names = append(names, level.tag)
		}
	}

	items := make([]aeo.SuggestionItem, 0, len(names))
	for _, name := range names {
		confidence, reason := 50, "Extracted from content analysis"
		if _, ok := known[aeo.NormalizeName(name)]; ok {
			confidence += 20
			reason = "Matches existing tag"
		}
		if _, ok := techTags[name]; ok {
			confidence += 15
			if reason != "Matches existing tag" {
				reason = "Technology mentioned in content"
			}
		}
		if _, ok := contentTypeTags[name]; ok {
			confidence += 10
		}
		items = append(items, aeo.SuggestionItem{
			Name:       name,
			Kind:       aeo.KindTag,
			Confidence: min(100, confidence),
			Provenance: aeo.ProvenanceAI,
			Reasoning:  reason,
		})
	}

	items = aeo.NormalizeSuggestions(items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence > items[j].Confidence
	})
	if len(items) > opts.MaxTags {
		items = items[:opts.MaxTags]
	}
	return items
}

// matchKnownTags returns known tags equal to, contained in or containing a
// keyword. Tags of two characters or fewer only match exactly.
func matchKnownTags(keywords, knownTags []string) []string {
	var out []string
	for _, kw := range keywords {
		kwLower := strings.ToLower(kw)
		for _, tag := range knownTags {
			tagLower := strings.ToLower(tag)
			switch {
			case kwLower == tagLower:
				out = append(out, tag)
			case len(tag) > 2 && (strings.Contains(kwLower, tagLower) || strings.Contains(tagLower, kwLower)):
				out = append(out, tag)
			}
		}
	}
	return out
}
