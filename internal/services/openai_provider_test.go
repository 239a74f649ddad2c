package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmate/internal/config"
	"shopmate/internal/costtracker"
	"shopmate/internal/models"
)

// --- Mock OpenAI Client ---
type mockOpenAIClient struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error
	lastRequest  openai.ChatCompletionRequest
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

// --- End Mock OpenAI Client ---

func chatResponse(content string, promptTokens, completionTokens int) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
		Usage: openai.Usage{PromptTokens: promptTokens, CompletionTokens: completionTokens, TotalTokens: promptTokens + completionTokens},
	}
}

func TestOpenAIProvider_GenerateChatCompletion(t *testing.T) {
	mockClient := &mockOpenAIClient{mockResponse: chatResponse(`{"Flipkart": "Great deals."}`, 100, 20)}
	tracker := costtracker.New()
	pricing := map[string]config.PricingInfo{"gpt-test": {InputPerToken: 0.001, OutputPerToken: 0.002}}
	provider := NewOpenAIProviderWithClient(mockClient, "gpt-test", 0.2, tracker, pricing)

	ctx := models.WithOperation(context.Background(), models.OperationReasonsBatch)
	got, err := provider.GenerateChatCompletion(ctx, []ChatMessage{{Role: ChatMessageRoleUser, Content: "prompt"}})
	require.NoError(t, err)
	assert.Equal(t, `{"Flipkart": "Great deals."}`, got)

	assert.Equal(t, "gpt-test", mockClient.lastRequest.Model)
	assert.InDelta(t, 0.2, mockClient.lastRequest.Temperature, 1e-6)
	require.Len(t, mockClient.lastRequest.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, mockClient.lastRequest.Messages[0].Role)

	total, _ := tracker.TotalCost(ctx)
	assert.InDelta(t, 0.14, total, 1e-9)
	summary, _ := tracker.Summary(ctx)
	require.Len(t, summary, 1)
	assert.Equal(t, models.OperationReasonsBatch, summary[0].Operation)
	assert.Equal(t, "openai", summary[0].ProviderName)
}

func TestOpenAIProvider_UnknownPricingStillRecordsTokens(t *testing.T) {
	tracker := costtracker.New()
	provider := NewOpenAIProviderWithClient(&mockOpenAIClient{mockResponse: chatResponse("ok", 10, 5)}, "gpt-other", 0, tracker, nil)

	_, err := provider.GenerateChatCompletion(context.Background(), []ChatMessage{{Role: ChatMessageRoleUser, Content: "x"}})
	require.NoError(t, err)

	summary, _ := tracker.Summary(context.Background())
	require.Len(t, summary, 1)
	assert.Equal(t, "completion", summary[0].Operation)
	assert.Equal(t, 10, summary[0].InputTokens)
	assert.Zero(t, summary[0].Cost)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		provider := NewOpenAIProviderWithClient(&mockOpenAIClient{mockError: errors.New("rate limited")}, "gpt-test", 0.2, nil, nil)
		_, err := provider.GenerateChatCompletion(context.Background(), []ChatMessage{{Role: ChatMessageRoleUser, Content: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		provider := NewOpenAIProviderWithClient(&mockOpenAIClient{}, "gpt-test", 0.2, nil, nil)
		_, err := provider.GenerateChatCompletion(context.Background(), []ChatMessage{{Role: ChatMessageRoleUser, Content: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}

func TestOpenAIProvider_MissingKeyIsDisabled(t *testing.T) {
	provider := NewOpenAIProvider("", "", "gpt-4o-mini", 0.2, nil, nil)
	assert.Equal(t, ProviderStatusDisabled, provider.Status())
	assert.Equal(t, "gpt-4o-mini", provider.ModelName())
	assert.Nil(t, NewCompleter(provider))

	_, err := provider.GenerateChatCompletion(context.Background(), nil)
	assert.Error(t, err)
}

func TestOpenAIProvider_WithKeyIsActive(t *testing.T) {
	provider := NewOpenAIProvider("sk-test", "http://localhost:1/v1", "gpt-4o-mini", 0.2, nil, nil)
	assert.Equal(t, ProviderStatusActive, provider.Status())
	assert.NotNil(t, NewCompleter(provider))
}
