// Package costtracker accumulates model usage and its cost for the life of
// the process.
package costtracker

import (
	"context"
	"sort"
	"sync"

	"shopmate/internal/models"
)

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordUsage(ctx context.Context, event models.UsageEvent) error
	TotalCost(ctx context.Context) (float64, error)
	Summary(ctx context.Context) ([]UsageSummary, error)
}

// UsageSummary aggregates events per provider, model and operation.
type UsageSummary struct {
	ProviderName string  `json:"provider"`
	ModelName    string  `json:"model"`
	Operation    string  `json:"operation"`
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

type summaryKey struct {
	provider, model, operation string
}

// MemoryTracker keeps totals in memory. Events themselves are not retained.
type MemoryTracker struct {
	mu     sync.Mutex
	total  float64
	groups map[summaryKey]*UsageSummary
}

// New returns an empty in-memory tracker.
func New() *MemoryTracker {
	return &MemoryTracker{groups: make(map[summaryKey]*UsageSummary)}
}

var _ CostTracker = (*MemoryTracker)(nil)

func (m *MemoryTracker) RecordUsage(ctx context.Context, event models.UsageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := summaryKey{event.ProviderName, event.ModelName, event.Operation}
	g, ok := m.groups[key]
	if !ok {
		g = &UsageSummary{ProviderName: event.ProviderName, ModelName: event.ModelName, Operation: event.Operation}
		m.groups[key] = g
	}
	g.Calls++
	g.InputTokens += event.InputTokens
	g.OutputTokens += event.OutputTokens
	g.Cost += event.Cost
	m.total += event.Cost
	return nil
}

func (m *MemoryTracker) TotalCost(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total, nil
}

// Summary returns one row per provider/model/operation, sorted by those keys.
func (m *MemoryTracker) Summary(ctx context.Context) ([]UsageSummary, error) {
	m.mu.Lock()
	out := make([]UsageSummary, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, *g)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProviderName != b.ProviderName {
			return a.ProviderName < b.ProviderName
		}
		if a.ModelName != b.ModelName {
			return a.ModelName < b.ModelName
		}
		return a.Operation < b.Operation
	})
	return out, nil
}

// NoopTracker discards everything.
type NoopTracker struct{}

func (NoopTracker) RecordUsage(context.Context, models.UsageEvent) error { return nil }
func (NoopTracker) TotalCost(context.Context) (float64, error)          { return 0, nil }
func (NoopTracker) Summary(context.Context) ([]UsageSummary, error)     { return nil, nil }
