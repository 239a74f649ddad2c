package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"shopmate/internal/metrics"
	"shopmate/internal/models"
	"shopmate/pkg/categorizer"
	"shopmate/pkg/deeplink"
	"shopmate/pkg/reasons"
)

// Informational messages for the non-error outcomes.
const (
	MessageNoCategory = "I couldn't recognize the product category. Try adding a few more details (e.g., 'laptop', 'sofa', or 'sneakers')."
	messageNoSites    = "No websites configured for the '%s' category yet. Please update the websites file."
)

// DatasetSource provides the category and website tables.
type DatasetSource interface {
	Categories() (*models.CategoryTable, error)
	Sites() (models.SiteTable, error)
}

// SuggestOptions adjust a single Suggest call.
type SuggestOptions struct {
	NoModel  bool             // use fallback reasons only
	Strategy reasons.Strategy // empty keeps the configured strategy
}

// CategorySummary is one row of the category listing.
type CategorySummary struct {
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	SiteCount int      `json:"site_count"`
}

// SuggestionService turns a free-form query into a list of suggested sites.
type SuggestionService struct {
	data     DatasetSource
	detector categorizer.CategoryDetector
	composer *reasons.Composer

	now   func() time.Time
	newID func() string
}

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(data DatasetSource, detector categorizer.CategoryDetector, composer *reasons.Composer) *SuggestionService {
	return &SuggestionService{
		data:     data,
		detector: detector,
		composer: composer,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// ModelAvailable reports whether reasons can come from a language model.
func (s *SuggestionService) ModelAvailable() bool { return s.composer.ModelAvailable() }

// Suggest runs the full pipeline with the configured options.
func (s *SuggestionService) Suggest(ctx context.Context, query string) (*models.SuggestionResult, error) {
	return s.SuggestWithOptions(ctx, query, SuggestOptions{})
}

// SuggestWithOptions detects the category of query, looks up its sites and
// returns a deep link and a reason for each. Dataset failures are returned as
// errors; no category and no sites are reported through the result Outcome.
func (s *SuggestionService) SuggestWithOptions(ctx context.Context, query string, opts SuggestOptions) (*models.SuggestionResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.ErrEmptyQuery
	}

	requestID := s.newID()
	logger := log.WithField("request_id", requestID)

	categories, err := s.data.Categories()
	if err != nil {
		logger.WithError(err).Error("Failed to load categories")
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	siteTable, err := s.data.Sites()
	if err != nil {
		logger.WithError(err).Error("Failed to load websites")
		return nil, fmt.Errorf("failed to load websites: %w", err)
	}

	composer := s.composer
	if opts.NoModel {
		composer = composer.WithoutModel()
	}
	if opts.Strategy != "" {
		composer = composer.WithStrategy(opts.Strategy)
	}

	result := &models.SuggestionResult{
		RequestID:      requestID,
		Query:          query,
		BudgetDetected: categorizer.HasBudget(query),
		ModelAvailable: composer.ModelAvailable(),
		Suggestions:    []models.Suggestion{},
		CreatedAt:      s.now().UTC(),
	}

	detection, ok := s.detector.Detect(ctx, query, categories)
	if !ok {
		result.Outcome = models.OutcomeNoCategory
		result.Message = MessageNoCategory
		metrics.RecordDetection(string(result.Outcome))
		logger.WithField("categories", categories.Names()).Info("No category recognized")
		return result, nil
	}
	result.Category = detection.Category
	logger = logger.WithField("category", detection.Category)

	sites := siteTable[detection.Category]
	if len(sites) == 0 {
		result.Outcome = models.OutcomeNoSites
		result.Message = fmt.Sprintf(messageNoSites, detection.Category)
		metrics.RecordDetection(string(result.Outcome))
		logger.Info("No websites configured for category")
		return result, nil
	}

	composed := composer.Compose(ctx, sites, detection.Category, query)
	if composed.ModelErr != nil {
		logger.WithError(composed.ModelErr).Debug("Some reasons fell back to templates")
	}

	modelCount := 0
	for _, site := range sites {
		reason := composed.Reasons[site.Name]
		if reason.Source == models.ReasonSourceModel {
			modelCount++
		}
		result.Suggestions = append(result.Suggestions, models.Suggestion{
			Site:         site,
			Link:         deeplink.Build(site, query, detection.Category),
			Reason:       reason.Text,
			ReasonSource: reason.Source,
		})
	}
	result.Outcome = models.OutcomeOK

	metrics.RecordDetection(string(result.Outcome))
	metrics.RecordReasons(string(models.ReasonSourceModel), modelCount)
	metrics.RecordReasons(string(models.ReasonSourceFallback), len(sites)-modelCount)
	logger.WithFields(log.Fields{
		"sites":         len(sites),
		"model_reasons": modelCount,
	}).Info("Suggestions ready")
	return result, nil
}

// Detect returns the best category for query without composing reasons.
func (s *SuggestionService) Detect(ctx context.Context, query string) (models.Detection, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Detection{}, false, models.ErrEmptyQuery
	}
	categories, err := s.data.Categories()
	if err != nil {
		return models.Detection{}, false, fmt.Errorf("failed to load categories: %w", err)
	}
	detection, ok := s.detector.Detect(ctx, query, categories)
	return detection, ok, nil
}

// Categories lists every category in table order with its site count.
func (s *SuggestionService) Categories(ctx context.Context) ([]CategorySummary, error) {
	categories, err := s.data.Categories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	siteTable, err := s.data.Sites()
	if err != nil {
		return nil, fmt.Errorf("failed to load websites: %w", err)
	}

	out := make([]CategorySummary, 0, len(categories.Categories))
	for _, c := range categories.Categories {
		out = append(out, CategorySummary{Name: c.Name, Keywords: c.Keywords, SiteCount: len(siteTable[c.Name])})
	}
	return out, nil
}

// Sites returns the websites configured for category. A category absent from
// both tables is ErrCategoryNotFound; a known category without sites is an
// empty list.
func (s *SuggestionService) Sites(ctx context.Context, category string) ([]models.Site, error) {
	category = strings.TrimSpace(category)
	categories, err := s.data.Categories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	siteTable, err := s.data.Sites()
	if err != nil {
		return nil, fmt.Errorf("failed to load websites: %w", err)
	}

	sites, inSites := siteTable[category]
	if _, inCategories := categories.Lookup(category); !inCategories && !inSites {
		return nil, fmt.Errorf("%w: %s", models.ErrCategoryNotFound, category)
	}
	if sites == nil {
		sites = []models.Site{}
	}
	return sites, nil
}
