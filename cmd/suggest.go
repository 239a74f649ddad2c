package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shopmate/internal/clix"
	"shopmate/internal/inputprocessor"
	"shopmate/internal/models"
)

var (
	suggestJSON bool
	suggestFile string // newline-separated queries, "-" for stdin
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest [query...]",
	Short: "Suggest shopping websites for a query",
	Long: `Detects the product category of the query and lists the configured
websites for it, each with a deep search link and a one-line reason.`,
	Example: `  shopmate suggest "I want to buy a laptop under ₹50,000"
  shopmate suggest blue cotton shirt --no-model
  shopmate suggest sofa --strategy per_site --json
  shopmate suggest --file queries.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, err := suggestQueries(cmd, args)
		if err != nil {
			return err
		}
		opts, err := clix.ParseSuggestOptions(cmd.Flags())
		if err != nil {
			return err
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		results := make([]*models.SuggestionResult, 0, len(queries))
		for _, query := range queries {
			result, err := appInstance.SuggestionService.SuggestWithOptions(cmd.Context(), query, opts)
			if err != nil {
				return fmt.Errorf("failed to suggest websites for %q: %w", query, err)
			}
			results = append(results, result)
		}

		out := cmd.OutOrStdout()
		if suggestJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if suggestFile == "" {
				return enc.Encode(results[0])
			}
			return enc.Encode(results)
		}
		for i, result := range results {
			if len(results) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "> %s\n", result.Query)
			}
			printSuggestions(out, result)
		}
		return nil
	},
}

// suggestQueries returns the positional query, or the queries listed in --file.
func suggestQueries(cmd *cobra.Command, args []string) ([]string, error) {
	if suggestFile == "" {
		query, err := clix.ParseQuery(args)
		if err != nil {
			return nil, err
		}
		return []string{query}, nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("pass either a query or --file, not both")
	}
	queries, err := inputprocessor.New().Process(cmd.Context(), suggestFile)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries found in %s", suggestFile)
	}
	return queries, nil
}

func printSuggestions(w io.Writer, result *models.SuggestionResult) {
	if result.Outcome != models.OutcomeOK {
		fmt.Fprintln(w, color.YellowString(result.Message))
		return
	}

	header := fmt.Sprintf("Category: %s", color.CyanString(result.Category))
	if result.BudgetDetected {
		header += " (budget noted)"
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w)

	for i, s := range result.Suggestions {
		source := color.GreenString(string(s.ReasonSource))
		if s.ReasonSource == models.ReasonSourceFallback {
			source = color.YellowString(string(s.ReasonSource))
		}
		fmt.Fprintf(w, "%d. %s [%s]\n", i+1, color.New(color.Bold).Sprint(s.Site.Name), source)
		fmt.Fprintf(w, "   %s\n", s.Link)
		fmt.Fprintf(w, "   %s\n", s.Reason)
	}
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().Bool("no-model", false, "Use the built-in reason templates only")
	suggestCmd.Flags().String("strategy", "", "Reason strategy: batch or per_site (default from config)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Print the result as JSON")
	suggestCmd.Flags().StringVarP(&suggestFile, "file", "f", "", "Read one query per line from a file ('-' for stdin)")
}
