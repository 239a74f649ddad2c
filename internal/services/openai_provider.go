package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"shopmate/internal/config"
	"shopmate/internal/costtracker"
	"shopmate/internal/models"
)

// ChatClient is the part of the go-openai client the provider uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements CompletionService using the OpenAI chat API or
// any compatible endpoint.
type OpenAIProvider struct {
	client      ChatClient
	model       string
	temperature float32
	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

// NewOpenAIProvider creates a new OpenAI completion provider. A missing API key
// yields a disabled provider rather than an error.
func NewOpenAIProvider(apiKey, baseURL, model string, temperature float64, tracker costtracker.CostTracker, pricing map[string]config.PricingInfo) *OpenAIProvider {
	if apiKey == "" {
		log.Warn("OpenAI API key not provided. Reasons will use the built-in templates.")
		return &OpenAIProvider{model: model}
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	log.Infof("OpenAI provider initialized with model %s", model)
	return NewOpenAIProviderWithClient(openai.NewClientWithConfig(clientCfg), model, temperature, tracker, pricing)
}

// NewOpenAIProviderWithClient creates a provider around an existing chat client.
func NewOpenAIProviderWithClient(client ChatClient, model string, temperature float64, tracker costtracker.CostTracker, pricing map[string]config.PricingInfo) *OpenAIProvider {
	if tracker == nil {
		tracker = costtracker.NoopTracker{}
	}
	return &OpenAIProvider{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		costTracker: tracker,
		pricing:     pricing,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// ModelName returns the specific model identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

func (p *OpenAIProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("OpenAI provider is not initialized (missing API key)")
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	p.recordUsage(ctx, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) recordUsage(ctx context.Context, inputTokens, outputTokens int) {
	if inputTokens == 0 && outputTokens == 0 {
		return
	}
	event := models.UsageEvent{
		Timestamp:    time.Now(),
		ProviderName: p.Name(),
		ModelName:    p.model,
		Operation:    models.OperationFrom(ctx),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	if price, ok := p.pricing[p.model]; ok {
		event.Cost = float64(inputTokens)*price.InputPerToken + float64(outputTokens)*price.OutputPerToken
	} else {
		log.Debugf("Pricing info not found for model '%s'. Recording tokens without cost.", p.model)
	}
	if err := p.costTracker.RecordUsage(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage: %v", err)
	}
}

// Status returns the operational status of the provider.
func (p *OpenAIProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

var _ CompletionService = (*OpenAIProvider)(nil)
