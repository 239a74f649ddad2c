package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"shopmate/pkg/deeplink"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories in detection order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		categories, err := appInstance.SuggestionService.Categories(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(categories) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Category", "Keywords", "Websites"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, c := range categories {
			table.Append([]string{c.Name, strings.Join(c.Keywords, ", "), strconv.Itoa(c.SiteCount)})
		}
		table.Render()
		return nil
	},
}

var sitesCmd = &cobra.Command{
	Use:   "sites <category>",
	Short: "List the websites configured for a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		sites, err := appInstance.SuggestionService.Sites(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list websites: %w", err)
		}
		if len(sites) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No websites configured for the '%s' category yet.\n", args[0])
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Name", "URL", "Search", "Strengths"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, s := range sites {
			search := "homepage"
			if deeplink.Known(s) {
				search = "deep link"
			}
			table.Append([]string{s.Name, s.URL, search, strings.Join(s.Strengths, ", ")})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(sitesCmd)
}
