package categorizer

import (
	"context"
	"strings"

	"shopmate/internal/models"
	"shopmate/internal/util"
)

// MatchMode selects how keywords are found in a query.
type MatchMode string

const (
	// MatchWord requires the keyword to stand on word boundaries, so "cat"
	// does not match "category".
	MatchWord MatchMode = "word"
	// MatchSubstring accepts any containment.
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode returns the mode for a config string. Empty means MatchWord.
func ParseMatchMode(s string) (MatchMode, bool) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchWord:
		return MatchWord, true
	case MatchSubstring:
		return MatchSubstring, true
	}
	return "", false
}

// CategoryDetector maps free text to a category of the keyword table.
type CategoryDetector interface {
	Detect(ctx context.Context, query string, table *models.CategoryTable) (models.Detection, bool)
}

// Normalize lowercases the query, replaces typographic characters and
// collapses runs of whitespace to a single space.
func Normalize(s string) string {
	s = util.ReplaceTypographic(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
