package services

import (
	"context"
	"fmt"
	"time"

	"shopmate/internal/metrics"
	"shopmate/pkg/reasons"
)

// ProviderStatus represents the operational status of a completion provider.
type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota // Default zero value
	ProviderStatusActive                         // Provider is configured and has a credential
	ProviderStatusInactive                       // Provider is temporarily unavailable
	ProviderStatusDisabled                       // Provider is not configured or explicitly disabled
)

func (s ProviderStatus) String() string {
	switch s {
	case ProviderStatusActive:
		return "active"
	case ProviderStatusInactive:
		return "inactive"
	case ProviderStatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ChatMessageRole defines the role of the message sender (system, user, assistant).
type ChatMessageRole string

const (
	ChatMessageRoleSystem    ChatMessageRole = "system"
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant" // "model" for Gemini
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// CompletionService defines the interface for generating chat responses.
type CompletionService interface {
	GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error)
	Status() ProviderStatus
	Name() string      // Provider name (e.g., "openai", "gemini")
	ModelName() string // Specific model used
}

// completer adapts a CompletionService to reasons.Completer, sending the
// prompt as a single user message and timing each call.
type completer struct {
	svc CompletionService
}

// NewCompleter returns a reasons.Completer backed by svc, or nil when svc is
// nil or not active so that the composer uses fallback reasons only.
func NewCompleter(svc CompletionService) reasons.Completer {
	if svc == nil || svc.Status() != ProviderStatusActive {
		return nil
	}
	return &completer{svc: svc}
}

func (c *completer) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.svc.GenerateChatCompletion(ctx, []ChatMessage{{Role: ChatMessageRoleUser, Content: prompt}})
	metrics.ObserveModelRequest(c.svc.Name(), err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", c.svc.Name(), err)
	}
	return text, nil
}
