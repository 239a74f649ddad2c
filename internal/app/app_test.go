package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmate/internal/config"
	"shopmate/internal/models"
	"shopmate/internal/services"
	"shopmate/pkg/reasons"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	dir := t.TempDir()
	cats := filepath.Join(dir, "categories.json")
	webs := filepath.Join(dir, "websites.json")
	require.NoError(t, os.WriteFile(cats, []byte(`{"electronics": ["laptop"], "fashion": ["shirt"]}`), 0o644))
	require.NoError(t, os.WriteFile(webs, []byte(`{"electronics": [{"name": "Croma", "url": "https://www.croma.com"}]}`), 0o644))

	cfg, err := config.LoadConfigFrom(viper.New(), dir)
	require.NoError(t, err)
	cfg.Data.CategoriesFile = cats
	cfg.Data.WebsitesFile = webs
	return cfg
}

func TestNewApp_ProviderNone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Provider = "none"

	a, err := NewApp(cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "none", a.CompletionService.Name())
	assert.False(t, a.Composer.ModelAvailable())

	result, err := a.SuggestionService.Suggest(context.Background(), "gaming laptop")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeOK, result.Outcome)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "https://www.croma.com/searchB?q=gaming%20laptop", result.Suggestions[0].Link)
	assert.Equal(t, models.ReasonSourceFallback, result.Suggestions[0].ReasonSource)

	result, err = a.SuggestionService.Suggest(context.Background(), "linen shirt")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoSites, result.Outcome)
}

func TestNewApp_OpenAIWithoutKeyFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Strategy = "per-site"
	cfg.Model.Timeout = 2 * time.Second

	a, err := NewApp(cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "openai", a.CompletionService.Name())
	assert.Equal(t, services.ProviderStatusDisabled, a.CompletionService.Status())
	assert.False(t, a.Composer.ModelAvailable())
	assert.Equal(t, reasons.StrategyPerSite, a.Composer.Strategy())
}

func TestNewApp_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Provider = "mystery"
	_, err := NewApp(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Detection.Match = "fuzzy"
	_, err = NewApp(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Log.Level = "loud"
	_, err = NewApp(cfg)
	assert.Error(t, err)
}

func TestNewApp_MissingPromptOverrideUsesBuiltin(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Provider = "none"
	cfg.Model.BatchPrompt = filepath.Join(t.TempDir(), "missing.txt")

	a, err := NewApp(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Composer)
}
