package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"shopmate/internal/services"
	"shopmate/pkg/reasons"
)

// ParseQuery joins positional arguments into one query, so both
// `suggest gaming laptop` and `suggest "gaming laptop"` work.
func ParseQuery(args []string) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return "", fmt.Errorf("a query is required, e.g. shopmate suggest \"laptop under ₹50,000\"")
	}
	return query, nil
}

// ParseSuggestOptions reads --no-model and --strategy.
func ParseSuggestOptions(flags *pflag.FlagSet) (services.SuggestOptions, error) {
	noModel, _ := flags.GetBool("no-model")
	strategyStr, _ := flags.GetString("strategy")

	opts := services.SuggestOptions{NoModel: noModel}
	if strategyStr != "" {
		strategy, ok := reasons.ParseStrategy(strategyStr)
		if !ok {
			return opts, fmt.Errorf("invalid --strategy %q: must be 'batch' or 'per_site'", strategyStr)
		}
		opts.Strategy = strategy
	}
	return opts, nil
}
