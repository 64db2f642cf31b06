package aeo

import (
	"context"
	"math"
	"sort"
	"time"
)

// OptimizationMethod describes the provenance mix of an optimization record.
type OptimizationMethod string

// OptimizationMethod constants.
const (
	MethodAIGenerated          OptimizationMethod = "ai_generated"
	MethodManualOnly           OptimizationMethod = "manual_only"
	MethodAIWithManualOverride OptimizationMethod = "ai_with_manual_override"
)

// ManualTagWeight is the SEO weight given to manually selected tags.
const ManualTagWeight = 0.7

// Record size limits. Manual entries are always kept, so a record with many
// manual entries may exceed them.
const (
	MaxSEOKeywords  = 15
	MaxEnhancedTags = 10
)

// EnhancedTag is a tag attached to content with an SEO weight.
type EnhancedTag struct {
	TagRef     string     `json:"tagRef"`
	Weight     float64    `json:"weight"`
	Provenance Provenance `json:"provenance"`
}

// Key returns the tag's identity in the suggestion key space.
func (t EnhancedTag) Key() SuggestionKey {
	return SuggestionKey{Kind: KindTag, Name: NormalizeName(t.TagRef)}
}

// OptimizationRecord is the long-lived optimization state of a content item.
// Method is derived from the entries and is recomputed by Merge.
type OptimizationRecord struct {
	ContentID       string             `json:"contentId"`
	SEOKeywords     []SuggestionItem   `json:"seoKeywords"`
	EnhancedTags    []EnhancedTag      `json:"enhancedTags"`
	Method          OptimizationMethod `json:"method"`
	LastOptimizedAt time.Time          `json:"lastOptimizedAt"`
	ModelUsed       string             `json:"modelUsed,omitempty"`
}

// ManualOpType is the action of a manual edit.
type ManualOpType string

// ManualOpType constants.
const (
	OpAdd    ManualOpType = "add"
	OpRemove ManualOpType = "remove"
)

// ManualOp is an explicit user edit to an optimization record.
type ManualOp struct {
	Op   ManualOpType   `json:"op"`
	Item SuggestionItem `json:"item"`
}

// Validate returns an error if the op cannot be applied to a record.
func (o ManualOp) Validate() error {
	if o.Op != OpAdd && o.Op != OpRemove {
		return Errorf(EINVALID, "unknown manual op %q", o.Op)
	}
	if err := o.Item.Validate(); err != nil {
		return err
	}
	switch o.Item.Kind {
	case KindKeyword, KindTopic, KindTag:
		return nil
	}
	return Errorf(EINVALID, "suggestion kind %q is not tracked by optimization records", o.Item.Kind)
}

// OptimizationService persists optimization records.
type OptimizationService interface {
	// FindOptimization returns the record for a content item.
	// Returns ENOTFOUND if no record exists.
	FindOptimization(ctx context.Context, contentID string) (*OptimizationRecord, error)

	// SaveOptimization creates or replaces the record for rec.ContentID.
	SaveOptimization(ctx context.Context, rec *OptimizationRecord) error
}

// Merge reconciles a previous record, an optional fresh AI result and
// explicit manual edits into a new record. It never mutates its inputs.
//
// Manual entries survive AI reruns. A fresh AI result replaces every
// previous AI entry of the keyword, topic and tag kinds, except names that
// already exist as manual entries. Manual ops are applied last, in order.
// Keywords are then ordered by descending confidence, and AI entries beyond
// MaxSEOKeywords and MaxEnhancedTags are dropped.
func Merge(prev *OptimizationRecord, fresh *ContentAnalysisResult, ops []ManualOp, at time.Time) (*OptimizationRecord, error) {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, err
		}
	}

	rec := &OptimizationRecord{}
	if prev != nil {
		rec.ContentID = prev.ContentID
		rec.SEOKeywords = append([]SuggestionItem(nil), prev.SEOKeywords...)
		rec.EnhancedTags = append([]EnhancedTag(nil), prev.EnhancedTags...)
		rec.LastOptimizedAt = prev.LastOptimizedAt
		rec.ModelUsed = prev.ModelUsed
	}

	if fresh != nil {
		rec.applyAI(fresh)
		rec.LastOptimizedAt = at
		rec.ModelUsed = fresh.Metadata.Model
		if rec.ModelUsed == "" {
			rec.ModelUsed = fresh.Metadata.Provider
		}
	}

	for _, op := range ops {
		rec.applyManual(op)
	}
	if len(ops) > 0 {
		rec.LastOptimizedAt = at
	}

	rec.limit()
	rec.Method = rec.method()
	return rec, nil
}

// limit orders keywords by confidence and drops the lowest ranked AI
// entries that exceed the record limits.
func (r *OptimizationRecord) limit() {
	sort.SliceStable(r.SEOKeywords, func(i, j int) bool {
		return r.SEOKeywords[i].Confidence > r.SEOKeywords[j].Confidence
	})

	room := MaxSEOKeywords
	for _, item := range r.SEOKeywords {
		if item.Provenance == ProvenanceManual {
			room--
		}
	}
	keywords := r.SEOKeywords[:0:0]
	for _, item := range r.SEOKeywords {
		if item.Provenance != ProvenanceManual {
			if room <= 0 {
				continue
			}
			room--
		}
		keywords = append(keywords, item)
	}
	r.SEOKeywords = keywords

	room = MaxEnhancedTags
	for _, tag := range r.EnhancedTags {
		if tag.Provenance == ProvenanceManual {
			room--
		}
	}
	tags := r.EnhancedTags[:0:0]
	for _, tag := range r.EnhancedTags {
		if tag.Provenance != ProvenanceManual {
			if room <= 0 {
				continue
			}
			room--
		}
		tags = append(tags, tag)
	}
	r.EnhancedTags = tags
}

// applyAI swaps all AI entries for the fresh result, suppressing names the
// user already set manually.
func (r *OptimizationRecord) applyAI(fresh *ContentAnalysisResult) {
	manual := make(map[SuggestionKey]struct{})

	keywords := make([]SuggestionItem, 0, len(r.SEOKeywords))
	for _, item := range r.SEOKeywords {
		if item.Provenance == ProvenanceManual {
			manual[item.Key()] = struct{}{}
			keywords = append(keywords, item)
		}
	}
	tags := make([]EnhancedTag, 0, len(r.EnhancedTags))
	for _, tag := range r.EnhancedTags {
		if tag.Provenance == ProvenanceManual {
			manual[tag.Key()] = struct{}{}
			tags = append(tags, tag)
		}
	}

	candidates := make([]SuggestionItem, 0, len(fresh.Suggestions.Keywords)+len(fresh.Suggestions.Topics))
	for _, item := range fresh.Suggestions.Keywords {
		item.Kind = KindKeyword
		candidates = append(candidates, item)
	}
	for _, item := range fresh.Suggestions.Topics {
		item.Kind = KindTopic
		candidates = append(candidates, item)
	}
	for _, item := range NormalizeSuggestions(candidates) {
		if _, ok := manual[item.Key()]; ok {
			continue
		}
		item.Provenance = ProvenanceAI
		keywords = append(keywords, item)
	}

	freshTags := make([]SuggestionItem, 0, len(fresh.Suggestions.Tags))
	for _, item := range fresh.Suggestions.Tags {
		item.Kind = KindTag
		freshTags = append(freshTags, item)
	}
	for _, item := range NormalizeSuggestions(freshTags) {
		if _, ok := manual[item.Key()]; ok {
			continue
		}
		tags = append(tags, EnhancedTag{
			TagRef:     item.Name,
			Weight:     math.Round(float64(item.Confidence)) / 100,
			Provenance: ProvenanceAI,
		})
	}

	r.SEOKeywords = keywords
	r.EnhancedTags = tags
}

// applyManual applies a validated op. Adding replaces an entry with the same
// key in place; removing drops entries with the key whatever their provenance.
func (r *OptimizationRecord) applyManual(op ManualOp) {
	key := op.Item.Key()

	if op.Item.Kind == KindTag {
		tag := EnhancedTag{TagRef: op.Item.Name, Weight: ManualTagWeight, Provenance: ProvenanceManual}
		out := r.EnhancedTags[:0:0]
		replaced := false
		for _, t := range r.EnhancedTags {
			if t.Key() != key {
				out = append(out, t)
				continue
			}
			if op.Op == OpAdd && !replaced {
				out = append(out, tag)
				replaced = true
			}
		}
		if op.Op == OpAdd && !replaced {
			out = append(out, tag)
		}
		r.EnhancedTags = out
		return
	}

	item := op.Item
	item.Provenance = ProvenanceManual
	if item.Confidence == 0 {
		item.Confidence = 100
	}
	item.Confidence = ClampConfidence(item.Confidence)

	out := r.SEOKeywords[:0:0]
	replaced := false
	for _, existing := range r.SEOKeywords {
		if existing.Key() != key {
			out = append(out, existing)
			continue
		}
		if op.Op == OpAdd && !replaced {
			out = append(out, item)
			replaced = true
		}
	}
	if op.Op == OpAdd && !replaced {
		out = append(out, item)
	}
	r.SEOKeywords = out
}

func (r *OptimizationRecord) method() OptimizationMethod {
	var ai, manual int
	for _, item := range r.SEOKeywords {
		if item.Provenance == ProvenanceManual {
			manual++
		} else {
			ai++
		}
	}
	for _, tag := range r.EnhancedTags {
		if tag.Provenance == ProvenanceManual {
			manual++
		} else {
			ai++
		}
	}

	switch {
	case ai == 0:
		return MethodManualOnly
	case manual == 0:
		return MethodAIGenerated
	}
	return MethodAIWithManualOverride
}
