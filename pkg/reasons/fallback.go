package reasons

import (
	"fmt"
	"strings"

	"shopmate/internal/models"
	"shopmate/pkg/categorizer"
)

const budgetHint = " Use price filters and deals to stay within your budget."

// categoryTemplates hold the tailored sentence for well-known categories; %s is the site name.
var categoryTemplates = map[string]string{
	"electronics": "%s offers a strong range of electronics with specs filters, trusted warranties, and quick delivery options.",
	"fashion":     "%s features extensive fashion catalogs, frequent discounts, and easy returns for size or style.",
	"furniture":   "%s lists sturdy furniture with style/size filters, clear specs, and delivery/assembly support.",
}

// DeterministicReason builds the templated justification for one site. It is
// a pure function of its inputs.
func DeterministicReason(site models.Site, category, query string) string {
	var base string
	if tmpl, ok := categoryTemplates[strings.ToLower(category)]; ok {
		base = fmt.Sprintf(tmpl, site.Name)
	} else {
		base = genericReason(site, category)
	}
	if categorizer.HasBudget(query) {
		base += budgetHint
	}
	return base
}

func genericReason(site models.Site, category string) string {
	var strengths []string
	for _, s := range site.Strengths {
		if s = strings.TrimSpace(s); s != "" {
			strengths = append(strengths, s)
		}
		if len(strengths) == 2 {
			break
		}
	}
	switch len(strengths) {
	case 0:
		return fmt.Sprintf("%s is a reliable place to browse %s with broad selection, trusted sellers, and convenient delivery.", site.Name, category)
	case 1:
		return fmt.Sprintf("%s is a reliable place to browse %s, known for %s.", site.Name, category, strengths[0])
	default:
		return fmt.Sprintf("%s is a reliable place to browse %s, known for %s and %s.", site.Name, category, strengths[0], strengths[1])
	}
}

// Fallback returns the deterministic reason for every site, keyed by site name.
func Fallback(sites []models.Site, category, query string) map[string]string {
	out := make(map[string]string, len(sites))
	for _, s := range sites {
		out[s.Name] = DeterministicReason(s, category, query)
	}
	return out
}
