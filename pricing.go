package aeo

import "math"

// DefaultTokensPerWord approximates tokens per English word.
const DefaultTokensPerWord = 1.3

// RateTable holds a provider's pricing.
type RateTable struct {
	// CostPerToken is the USD price of a single token.
	CostPerToken float64 `json:"costPerToken" yaml:"cost_per_token"`
	// TokensPerWord converts a word count into an approximate token count.
	TokensPerWord float64 `json:"tokensPerWord" yaml:"tokens_per_word"`
	// PerAnalysis is a flat USD fee charged for every analysis.
	PerAnalysis float64 `json:"perAnalysis" yaml:"per_analysis"`
}

// IsFree reports whether every analysis under this rate table costs nothing.
func (r RateTable) IsFree() bool {
	return r.CostPerToken == 0 && r.PerAnalysis == 0
}

// EstimateCost returns the approximate USD cost of analyzing title and
// content, rounded to three decimals. It is used to size quota reservations
// and to show a confirmation to the user; providers report the actual cost.
func EstimateCost(title, content string, rates RateTable) float64 {
	if rates.IsFree() {
		return 0
	}
	perWord := rates.TokensPerWord
	if perWord <= 0 {
		perWord = DefaultTokensPerWord
	}
	words := CountWords(title) + CountWords(content)
	return RoundCost(float64(words)*perWord*rates.CostPerToken + rates.PerAnalysis)
}

// TokenCost returns the USD cost of tokens under rates, rounded to three decimals.
func TokenCost(tokens int, rates RateTable) float64 {
	return RoundCost(float64(tokens)*rates.CostPerToken + rates.PerAnalysis)
}

// RoundCost rounds a USD amount to three decimals.
func RoundCost(usd float64) float64 {
	return math.Round(usd*1000) / 1000
}
