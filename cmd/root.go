package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shopmate/internal/app"
	"shopmate/internal/config"
	"shopmate/internal/services"
)

// Version is set at build time with -ldflags "-X shopmate/cmd.Version=...".
var Version = "dev"

// loadConfig and newApp are swapped out in tests.
var (
	loadConfig = config.LoadConfig
	newApp     = app.NewApp
)

var rootCmd = &cobra.Command{
	Use:   "shopmate",
	Short: "Shopmate suggests where to shop for what you want to buy",
	Long: `Shopmate matches a free-form shopping query against a keyword table,
picks the best category, and suggests websites with deep search links and a
one-line reason for each.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Don't run initialization for help and version
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		appInstance, err := newApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store the app instance in the command's context
		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := executeRoot(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// executeRoot runs the command tree and closes the app whether or not the
// command succeeded. Cobra skips post-run hooks after a RunE error.
func executeRoot(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if cmd != nil {
		if appInstance, appErr := GetAppFromContext(cmd.Context()); appErr == nil {
			appInstance.Close()
		}
	}
	return err
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		// This should not happen if PersistentPreRunE ran successfully
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shopmate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shopmate %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check data files, model provider and usage totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		failed := false
		fmt.Fprintf(out, "Categories file: %s ... ", appInstance.Catalog.CategoriesPath())
		if categories, err := appInstance.Catalog.Categories(); err != nil {
			fmt.Fprintf(out, "%s (%v)\n", color.RedString("FAILED"), err)
			failed = true
		} else {
			fmt.Fprintf(out, "%s (%d categories: %s)\n", color.GreenString("OK"), len(categories.Categories), strings.Join(categories.Names(), ", "))
		}

		fmt.Fprintf(out, "Websites file: %s ... ", appInstance.Catalog.WebsitesPath())
		if sites, err := appInstance.Catalog.Sites(); err != nil {
			fmt.Fprintf(out, "%s (%v)\n", color.RedString("FAILED"), err)
			failed = true
		} else {
			fmt.Fprintf(out, "%s (%d categories with websites)\n", color.GreenString("OK"), len(sites))
		}

		model := appInstance.CompletionService
		status := model.Status()
		statusText := color.YellowString(status.String())
		if status == services.ProviderStatusActive {
			statusText = color.GreenString(status.String())
		}
		fmt.Fprintf(out, "Model provider: %s %s ... %s\n", model.Name(), model.ModelName(), statusText)
		if status != services.ProviderStatusActive {
			fmt.Fprintln(out, "  Reasons will use the built-in templates.")
		}
		fmt.Fprintf(out, "Detection: %s match, reasons: %s strategy\n", appInstance.Detector.Mode(), appInstance.Composer.Strategy())

		total, _ := appInstance.CostTracker.TotalCost(ctx)
		fmt.Fprintf(out, "Model spend this process: $%.6f\n", total)

		if failed {
			return fmt.Errorf("doctor found problems with the data files")
		}
		return nil
	},
}
