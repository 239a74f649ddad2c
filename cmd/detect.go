package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shopmate/internal/clix"
	"shopmate/internal/services"
)

var detectCmd = &cobra.Command{
	Use:   "detect [query...]",
	Short: "Show which category a query maps to",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := clix.ParseQuery(args)
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		detection, found, err := appInstance.SuggestionService.Detect(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to detect category: %w", err)
		}

		out := cmd.OutOrStdout()
		if !found {
			fmt.Fprintln(out, color.YellowString(services.MessageNoCategory))
			return nil
		}
		fmt.Fprintf(out, "%s (score %d; matched: %s)\n",
			color.CyanString(detection.Category), detection.Score, strings.Join(detection.Matched, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
