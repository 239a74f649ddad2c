package services

import (
	"context"
	"errors"
)

// NoopCompletionService is used when model.provider is "none".
type NoopCompletionService struct{}

func NewNoopCompletionService() CompletionService {
	return &NoopCompletionService{}
}

func (s *NoopCompletionService) GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	return "", errors.New("no completion provider configured")
}

func (s *NoopCompletionService) Status() ProviderStatus { return ProviderStatusDisabled }
func (s *NoopCompletionService) Name() string           { return "none" }
func (s *NoopCompletionService) ModelName() string      { return "" }
