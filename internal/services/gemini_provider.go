package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"shopmate/internal/config"
	"shopmate/internal/costtracker"
	"shopmate/internal/models"
)

// ContentGenerator is the part of *genai.GenerativeModel the provider uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements CompletionService using the Google Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	model       ContentGenerator
	modelName   string
	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

// NewGeminiProvider creates a new Gemini completion provider. A missing API key
// yields a disabled provider rather than an error.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, temperature float64, tracker costtracker.CostTracker, pricing map[string]config.PricingInfo) (*GeminiProvider, error) {
	if apiKey == "" {
		log.Warn("Gemini API key not provided. Reasons will use the built-in templates.")
		return &GeminiProvider{modelName: modelName}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(float32(temperature))
	model.SetCandidateCount(1)

	log.Infof("Gemini provider initialized with model %s", modelName)
	p := NewGeminiProviderWithModel(model, modelName, tracker, pricing)
	p.client = client
	return p, nil
}

// NewGeminiProviderWithModel creates a provider around an existing generator.
func NewGeminiProviderWithModel(model ContentGenerator, modelName string, tracker costtracker.CostTracker, pricing map[string]config.PricingInfo) *GeminiProvider {
	if tracker == nil {
		tracker = costtracker.NoopTracker{}
	}
	return &GeminiProvider{
		model:       model,
		modelName:   modelName,
		costTracker: tracker,
		pricing:     pricing,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string { return "gemini" }

// ModelName returns the specific model identifier.
func (p *GeminiProvider) ModelName() string { return p.modelName }

// GenerateChatCompletion sends every message as a text part of one request.
func (p *GeminiProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if p.model == nil {
		return "", fmt.Errorf("Gemini provider is not initialized (missing API key)")
	}

	parts := make([]genai.Part, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no message content to send to Gemini")
	}

	resp, err := p.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error generating content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if resp.UsageMetadata != nil {
		p.recordUsage(ctx, int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	}
	return sb.String(), nil
}

func (p *GeminiProvider) recordUsage(ctx context.Context, inputTokens, outputTokens int) {
	if inputTokens == 0 && outputTokens == 0 {
		return
	}
	event := models.UsageEvent{
		Timestamp:    time.Now(),
		ProviderName: p.Name(),
		ModelName:    p.modelName,
		Operation:    models.OperationFrom(ctx),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	if price, ok := p.pricing[p.modelName]; ok {
		event.Cost = float64(inputTokens)*price.InputPerToken + float64(outputTokens)*price.OutputPerToken
	}
	if err := p.costTracker.RecordUsage(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage: %v", err)
	}
}

// Status returns the operational status of the provider.
func (p *GeminiProvider) Status() ProviderStatus {
	if p.model == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

var _ CompletionService = (*GeminiProvider)(nil)
