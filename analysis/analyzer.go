// Package analysis orchestrates content analysis. It selects a suggestion
// provider, enforces usage quotas through a reservation ledger and
// resolves every reservation it takes.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/aeo"
)

// BasicKey is the provider key of the free heuristic provider.
const BasicKey = "basic"

// DefaultTimeout bounds a single remote provider call including retries.
const DefaultTimeout = 30 * time.Second

// DefaultCacheTTL is how long AI results are served from the cache.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Minimum input sizes, in characters, for an analysis to be meaningful.
const (
	MinTitleLength   = 5
	MinContentLength = 50
)

// Provider is a registered suggestion provider with its pricing.
type Provider struct {
	Provider aeo.SuggestionProvider
	Info     aeo.ProviderInfo
	Rates    aeo.RateTable
}

// Analyzer runs content through a provider. The basic provider is free and
// bypasses the ledger. Any other provider requires a reservation that is
// committed with the provider's reported cost or released on failure.
type Analyzer struct {
	Basic       Provider
	Remote      map[string]Provider
	Ledger      aeo.UsageLedger
	Cache       aeo.AnalysisCache
	Limiter     aeo.UserLimiter
	Options     aeo.AnalyzeOptions
	Timeout     time.Duration
	CacheTTL    time.Duration
	RetryDelays []time.Duration
	Log         LogFunc
}

// CanAnalyze reports whether title or content is long enough to analyze.
// Lengths are measured on the raw inputs, markup and whitespace included.
func CanAnalyze(title, content string) bool {
	return utf8.RuneCountInString(title) >= MinTitleLength ||
		utf8.RuneCountInString(content) >= MinContentLength
}

// CacheKey identifies a provider's result for a title and content.
func CacheKey(providerKey, title, content string) string {
	h := xxhash.New()
	_, _ = h.WriteString(providerKey)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(title)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(content)
	return fmt.Sprintf("%x", h.Sum64())
}

// Analyze produces suggestions for title and content using the provider
// registered under providerKey. An empty key selects the basic provider.
func (a *Analyzer) Analyze(ctx context.Context, title, content, providerKey, userID string) (*aeo.ContentAnalysisResult, error) {
	if !CanAnalyze(title, content) {
		return nil, aeo.Errorf(aeo.EINSUFFICIENT, "insufficient content: need a title of at least %d characters or content of at least %d", MinTitleLength, MinContentLength)
	}

	if providerKey == "" || providerKey == BasicKey {
		return a.analyzeBasic(ctx, title, content)
	}

	p, ok := a.Remote[providerKey]
	if !ok {
		return nil, aeo.Errorf(aeo.EINVALID, "unknown provider %q", providerKey)
	}
	if userID == "" {
		return nil, aeo.Errorf(aeo.EINVALID, "user ID required")
	}

	cacheKey := CacheKey(providerKey, title, content)
	if cached := a.cached(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx, userID); err != nil {
			return nil, contextError(err, "waiting for rate limit")
		}
	}

	estimate := aeo.EstimateCost(title, content, p.Rates)
	reservation, err := a.Ledger.CheckAndReserve(ctx, userID, estimate)
	if err != nil {
		return nil, err
	}

	result, err := a.invoke(ctx, providerKey, p, title, content)
	if err != nil {
		// The caller's context may be done; the reservation must still resolve.
		releaseErr := a.Ledger.Release(context.WithoutCancel(ctx), reservation)
		return nil, errors.Join(err, releaseErr)
	}

	if err := a.Ledger.Commit(context.WithoutCancel(ctx), reservation, max(0, result.Metadata.Cost)); err != nil {
		return nil, err
	}

	if a.Cache != nil {
		_ = a.Cache.PutAnalysis(context.WithoutCancel(ctx), cacheKey, result, a.cacheTTL())
	}
	return result, nil
}

// EstimateCost returns the estimated USD cost of analyzing title and
// content with the given provider. The basic provider is always free.
func (a *Analyzer) EstimateCost(title, content, providerKey string) (float64, error) {
	if providerKey == "" || providerKey == BasicKey {
		return 0, nil
	}
	p, ok := a.Remote[providerKey]
	if !ok {
		return 0, aeo.Errorf(aeo.EINVALID, "unknown provider %q", providerKey)
	}
	return aeo.EstimateCost(title, content, p.Rates), nil
}

// Providers lists the basic provider followed by remote providers sorted by key.
func (a *Analyzer) Providers() []aeo.ProviderInfo {
	basic := a.Basic.Info
	if basic.Key == "" {
		basic.Key = BasicKey
	}
	basic.Free = true

	keys := make([]string, 0, len(a.Remote))
	for key := range a.Remote {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := []aeo.ProviderInfo{basic}
	for _, key := range keys {
		info := a.Remote[key].Info
		info.Key = key
		info.Free = a.Remote[key].Rates.IsFree()
		out = append(out, info)
	}
	return out
}

func (a *Analyzer) analyzeBasic(ctx context.Context, title, content string) (*aeo.ContentAnalysisResult, error) {
	if a.Basic.Provider == nil {
		return nil, aeo.Errorf(aeo.EINTERNAL, "basic provider not configured")
	}
	result, err := a.Basic.Provider.Analyze(ctx, title, content, a.Options)
	if err != nil {
		return nil, err
	}
	result.Normalize()
	result.Metadata.Cost = 0
	return result, nil
}

// invoke calls the provider under the analyzer's timeout, retrying
// provider failures with the configured delays.
func (a *Analyzer) invoke(ctx context.Context, key string, p Provider, title, content string) (*aeo.ContentAnalysisResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()

	result, err := Do(callCtx, a.RetryDelays, a.Log, func(ctx context.Context) (*aeo.ContentAnalysisResult, error) {
		return p.Provider.Analyze(ctx, title, content, a.Options)
	})
	if err != nil {
		if callCtx.Err() != nil {
			return nil, contextError(callCtx.Err(), fmt.Sprintf("provider %s", key))
		}
		if aeo.ErrorCode(err) == aeo.EPROVIDER || aeo.ErrorCode(err) == aeo.ETIMEOUT {
			return nil, err
		}
		return nil, aeo.Errorf(aeo.EPROVIDER, "provider %s: %v", key, err)
	}
	if result == nil {
		return nil, aeo.Errorf(aeo.EPROVIDER, "provider %s returned no result", key)
	}

	result.Normalize()
	if result.Metadata.Provider == "" {
		result.Metadata.Provider = key
	}
	return result, nil
}

func (a *Analyzer) cached(ctx context.Context, key string) *aeo.ContentAnalysisResult {
	if a.Cache == nil {
		return nil
	}
	result, err := a.Cache.GetAnalysis(ctx, key)
	if err != nil || result == nil {
		return nil
	}
	result.Metadata.Cached = true
	return result
}

func (a *Analyzer) timeout() time.Duration {
	if a.Timeout <= 0 {
		return DefaultTimeout
	}
	return a.Timeout
}

func (a *Analyzer) cacheTTL() time.Duration {
	if a.CacheTTL <= 0 {
		return DefaultCacheTTL
	}
	return a.CacheTTL
}

// contextError maps a context failure to ETIMEOUT on deadline. Cancellation
// is returned unchanged so callers can detect it with errors.Is.
func contextError(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(aeo.Errorf(aeo.ETIMEOUT, "%s: timed out", op), err)
	}
	return err
}
