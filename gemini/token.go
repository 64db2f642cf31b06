package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/aeo"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ aeo.TokenCounter = (*TokenCounter)(nil)

// TokenCounter prices analyses offline when a response carries no usage
// metadata. It runs the model's tokenizer locally, without an API call.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the local tokenizer for model, or DefaultModel when
// model is empty. Returns EINVALID if the model has no local tokenizer.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, aeo.Errorf(aeo.EINVALID, "no local tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the model whose tokenizer is loaded.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens returns the number of tokens text occupies as a single user
// turn. Blank text is zero tokens.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, aeo.Errorf(aeo.EPROVIDER, "count tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
