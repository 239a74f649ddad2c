package models

import (
	"time"
)

// Category is one entry of the keyword table.
type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// CategoryTable holds categories in file order. The order is significant:
// detection ties go to the category that appears first.
type CategoryTable struct {
	Categories []Category `json:"categories"`
}

// Names returns the category names in table order.
func (t *CategoryTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Lookup finds a category by exact name.
func (t *CategoryTable) Lookup(name string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	for _, c := range t.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Site is a candidate shopping website.
type Site struct {
	Name      string   `json:"name" yaml:"name"`
	URL       string   `json:"url" yaml:"url"`
	Strengths []string `json:"strengths,omitempty" yaml:"strengths,omitempty"`
}

// SiteTable maps a category name to its websites, in display order.
type SiteTable map[string][]Site

// Suggestion is one rendered row: where to go and why.
type Suggestion struct {
	Site         Site         `json:"site"`
	Link         string       `json:"link"`
	Reason       string       `json:"reason"`
	ReasonSource ReasonSource `json:"reason_source"`
}

// SuggestionResult is the full answer to a single query.
type SuggestionResult struct {
	RequestID      string       `json:"request_id"`
	Query          string       `json:"query"`
	Category       string       `json:"category,omitempty"`
	Outcome        Outcome      `json:"outcome"`
	Message        string       `json:"message,omitempty"`
	BudgetDetected bool         `json:"budget_detected"`
	ModelAvailable bool         `json:"model_available"`
	Suggestions    []Suggestion `json:"suggestions"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Detection is the outcome of matching a query against the keyword table.
type Detection struct {
	Category string   `json:"category"`
	Score    int      `json:"score"`
	Matched  []string `json:"matched"`
}

// UsageEvent records the token usage and estimated cost of one model call.
type UsageEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	ProviderName string    `json:"provider"`
	ModelName    string    `json:"model"`
	Operation    string    `json:"operation"` // e.g. "reasons_batch", "reason_site"
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Cost         float64   `json:"cost_usd"`
}
