package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmate/internal/config"
	"shopmate/internal/costtracker"
)

type mockGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (m *mockGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m.parts = parts
	return m.resp, m.err
}

func TestGeminiProvider_GenerateChatCompletion(t *testing.T) {
	gen := &mockGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("IKEA has "), genai.Text("flat-pack value.")}}},
		},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 40, CandidatesTokenCount: 10},
	}}
	tracker := costtracker.New()
	pricing := map[string]config.PricingInfo{"gemini-test": {InputPerToken: 0.01, OutputPerToken: 0.02}}
	provider := NewGeminiProviderWithModel(gen, "gemini-test", tracker, pricing)

	got, err := provider.GenerateChatCompletion(context.Background(), []ChatMessage{
		{Role: ChatMessageRoleSystem, Content: "be brief"},
		{Role: ChatMessageRoleUser, Content: "why IKEA?"},
		{Role: ChatMessageRoleUser, Content: "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, "IKEA has flat-pack value.", got)
	assert.Equal(t, []genai.Part{genai.Text("be brief"), genai.Text("why IKEA?")}, gen.parts)

	total, _ := tracker.TotalCost(context.Background())
	assert.InDelta(t, 0.6, total, 1e-9)
	assert.Equal(t, ProviderStatusActive, provider.Status())
	assert.NoError(t, provider.Close())
}

func TestGeminiProvider_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		provider := NewGeminiProviderWithModel(&mockGenerator{err: errors.New("quota")}, "gemini-test", nil, nil)
		_, err := provider.GenerateChatCompletion(context.Background(), []ChatMessage{{Role: ChatMessageRoleUser, Content: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota")
	})

	t.Run("no candidates", func(t *testing.T) {
		provider := NewGeminiProviderWithModel(&mockGenerator{resp: &genai.GenerateContentResponse{}}, "gemini-test", nil, nil)
		_, err := provider.GenerateChatCompletion(context.Background(), []ChatMessage{{Role: ChatMessageRoleUser, Content: "x"}})
		require.Error(t, err)
	})

	t.Run("empty messages", func(t *testing.T) {
		provider := NewGeminiProviderWithModel(&mockGenerator{}, "gemini-test", nil, nil)
		_, err := provider.GenerateChatCompletion(context.Background(), nil)
		require.Error(t, err)
	})
}

func TestGeminiProvider_MissingKeyIsDisabled(t *testing.T) {
	provider, err := NewGeminiProvider(context.Background(), "", "gemini-1.5-flash", 0.2, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderStatusDisabled, provider.Status())
	assert.Nil(t, NewCompleter(provider))
	assert.NoError(t, provider.Close())
}

func TestNoopCompletionService(t *testing.T) {
	svc := NewNoopCompletionService()
	assert.Equal(t, ProviderStatusDisabled, svc.Status())
	assert.Equal(t, "none", svc.Name())
	assert.Nil(t, NewCompleter(svc))
	assert.Equal(t, "disabled", svc.Status().String())
}
