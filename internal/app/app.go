package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"shopmate/internal/catalog"
	"shopmate/internal/config"
	"shopmate/internal/costtracker"
	"shopmate/internal/logging"
	"shopmate/internal/metrics"
	"shopmate/internal/services"
	"shopmate/pkg/categorizer"
	"shopmate/pkg/reasons"
)

type App struct {
	Config *config.Config

	Catalog           *catalog.Loader
	Detector          *categorizer.KeywordCategorizer
	CompletionService services.CompletionService
	Composer          *reasons.Composer
	CostTracker       *costtracker.MemoryTracker

	// --- Initialized Services ---
	SuggestionService *services.SuggestionService

	logCloser io.Closer
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	app := &App{Config: cfg}

	if err := app.initLogging(); err != nil {
		return nil, err
	}
	metrics.Init(nil)

	app.Catalog = catalog.NewLoader(cfg.Data.CategoriesFile, cfg.Data.WebsitesFile)

	mode, ok := categorizer.ParseMatchMode(cfg.Detection.Match)
	if !ok {
		app.cleanupPartialInit()
		return nil, fmt.Errorf("unknown detection.match %q", cfg.Detection.Match)
	}
	app.Detector = categorizer.NewKeywordCategorizer(mode)

	app.CostTracker = costtracker.New()
	if err := app.initCompletionService(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initComposer(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	app.SuggestionService = services.NewSuggestionService(app.Catalog, app.Detector, app.Composer)
	log.WithFields(log.Fields{
		"provider": app.CompletionService.Name(),
		"model":    app.CompletionService.ModelName(),
		"status":   app.CompletionService.Status().String(),
	}).Debug("Application initialized")
	return app, nil
}

func (a *App) initLogging() error {
	closer, err := logging.Setup(log.StandardLogger(), logging.Options{
		Level:      a.Config.Log.Level,
		Format:     a.Config.Log.Format,
		File:       a.Config.Log.File,
		MaxSizeMB:  a.Config.Log.MaxSizeMB,
		MaxBackups: a.Config.Log.MaxBackups,
		MaxAgeDays: a.Config.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	a.logCloser = closer
	return nil
}

func (a *App) initCompletionService(ctx context.Context) error {
	cfg := a.Config
	pricing := cfg.ModelPricing()

	switch strings.ToLower(cfg.Model.Provider) {
	case "openai":
		a.CompletionService = services.NewOpenAIProvider(
			cfg.Model.OpenaiApiKey,
			cfg.Model.BaseURL,
			cfg.Model.Name,
			cfg.Model.Temperature,
			a.CostTracker,
			pricing,
		)
	case "gemini":
		provider, err := services.NewGeminiProvider(ctx, cfg.Model.GoogleApiKey, cfg.Model.Name, cfg.Model.Temperature, a.CostTracker, pricing)
		if err != nil {
			return fmt.Errorf("failed to initialize Gemini completion provider: %w", err)
		}
		a.CompletionService = provider
	case "none", "":
		log.Info("Model provider disabled; reasons will use the built-in templates.")
		a.CompletionService = services.NewNoopCompletionService()
	default:
		return fmt.Errorf("unknown or unsupported model provider configured: %s", cfg.Model.Provider)
	}
	return nil
}

func (a *App) initComposer() error {
	cfg := a.Config

	// Prompt overrides are optional; a broken override falls back to the built-in prompt.
	batchPrompt, err := config.LoadPromptContent(cfg.Model.BatchPrompt, reasons.DefaultBatchPrompt)
	if err != nil {
		log.Warnf("Failed to load batch prompt: %v. Using the built-in prompt.", err)
		batchPrompt = reasons.DefaultBatchPrompt
	}
	sitePrompt, err := config.LoadPromptContent(cfg.Model.SitePrompt, reasons.DefaultSitePrompt)
	if err != nil {
		log.Warnf("Failed to load site prompt: %v. Using the built-in prompt.", err)
		sitePrompt = reasons.DefaultSitePrompt
	}

	strategy, ok := reasons.ParseStrategy(cfg.Model.Strategy)
	if !ok {
		return fmt.Errorf("unknown model.strategy %q", cfg.Model.Strategy)
	}

	composer, err := reasons.NewComposer(services.NewCompleter(a.CompletionService), reasons.Options{
		Strategy:    strategy,
		Timeout:     cfg.Model.Timeout,
		BatchPrompt: batchPrompt,
		SitePrompt:  sitePrompt,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize reason composer: %w", err)
	}
	a.Composer = composer
	return nil
}

func (a *App) cleanupPartialInit() {
	// Add cleanup for CompletionService if it has a Close method
	if cs, ok := a.CompletionService.(interface{ Close() error }); ok && cs != nil {
		if err := cs.Close(); err != nil {
			log.Printf("Error closing CompletionService: %v", err)
		}
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// Close releases the completion client and the log file.
func (a *App) Close() {
	a.cleanupPartialInit()
}
