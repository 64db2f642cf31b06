//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestProvider_Integration_ReturnsSuggestions(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	p := gemini.NewProvider(client, gemini.DefaultRates)
	result, err := p.Analyze(ctx,
		"Getting Started with Kubernetes Deployments",
		"<p>A Deployment manages a set of Pods running your containerized application. "+
			"You describe the desired state and the controller changes the actual state to match it.</p>",
		aeo.AnalyzeOptions{},
	)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Suggestions.Keywords)
	assert.Positive(t, result.Metadata.Cost)
}
