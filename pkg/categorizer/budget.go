package categorizer

import "regexp"

// budgetPattern matches an amount preceded by a currency marker ("₹50,000",
// "rs. 2000", "rupees 1500", "$300") or by the word "under".
var budgetPattern = regexp.MustCompile(`(?:₹|\brs\.?|\brupees?\b|\binr\b|\$|\busd\b|€|£)\s*\d[\d,]*|\bunder\s*(?:₹|\brs\.?|\$|€|£)?\s*\d[\d,]*`)

// HasBudget reports whether the query mentions a price limit.
func HasBudget(query string) bool {
	return budgetPattern.MatchString(Normalize(query))
}
