package categorizer

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"shopmate/internal/models"
)

// KeywordCategorizer implements CategoryDetector by counting keyword hits.
//
// Each category scores the number of its distinct keywords present in the
// normalized query. The strictly highest score wins; on a tie the category
// listed first in the table wins. A best score of zero means no category.
type KeywordCategorizer struct {
	mode MatchMode
}

// NewKeywordCategorizer creates a detector using the given match mode.
func NewKeywordCategorizer(mode MatchMode) *KeywordCategorizer {
	if mode == "" {
		mode = MatchWord
	}
	return &KeywordCategorizer{mode: mode}
}

// Mode reports the configured match mode.
func (k *KeywordCategorizer) Mode() MatchMode { return k.mode }

func (k *KeywordCategorizer) Detect(ctx context.Context, query string, table *models.CategoryTable) (models.Detection, bool) {
	if table == nil {
		return models.Detection{}, false
	}
	q := Normalize(query)
	if q == "" {
		return models.Detection{}, false
	}

	var best models.Detection
	for _, cat := range table.Categories {
		matched := k.matchKeywords(q, cat.Keywords)
		if len(matched) > best.Score {
			best = models.Detection{Category: cat.Name, Score: len(matched), Matched: matched}
		}
	}
	if best.Score == 0 {
		return models.Detection{}, false
	}
	return best, true
}

// matchKeywords returns the distinct normalized keywords found in q, in keyword order.
func (k *KeywordCategorizer) matchKeywords(q string, keywords []string) []string {
	var matched []string
	seen := make(map[string]struct{}, len(keywords))
	for _, raw := range keywords {
		kw := Normalize(raw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}

		var hit bool
		switch k.mode {
		case MatchSubstring:
			hit = strings.Contains(q, kw)
		default:
			hit = containsWord(q, kw)
		}
		if hit {
			matched = append(matched, kw)
		}
	}
	return matched
}

// containsWord reports whether kw occurs in s with no letter or digit
// directly before or after it.
func containsWord(s, kw string) bool {
	for offset := 0; offset <= len(s)-len(kw); {
		i := strings.Index(s[offset:], kw)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(kw)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Ensure KeywordCategorizer implements the interface at compile time.
var _ CategoryDetector = (*KeywordCategorizer)(nil)
