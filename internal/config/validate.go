package config

import (
	"errors"
	"fmt"
	"strings"
)

/*
Validate checks the loaded configuration before anything is wired:
- Data file paths
- Detection match mode
- Model provider, strategy, temperature and timeout
- Logging level and format
- Pricing (if present)

API keys are not required here. A provider without a key is reported as
unavailable and every reason falls back to the deterministic template.
*/
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.CategoriesFile) == "" {
		return errors.New("data.categories_file is required")
	}
	if strings.TrimSpace(c.Data.WebsitesFile) == "" {
		return errors.New("data.websites_file is required")
	}

	switch strings.ToLower(c.Detection.Match) {
	case "", "word", "substring":
	default:
		return fmt.Errorf("detection.match must be 'word' or 'substring', got '%s'", c.Detection.Match)
	}

	switch strings.ToLower(c.Model.Provider) {
	case "openai", "gemini", "none", "":
	default:
		return fmt.Errorf("model.provider must be one of openai, gemini, none; got '%s'", c.Model.Provider)
	}
	if c.Model.Provider != "" && !strings.EqualFold(c.Model.Provider, "none") && c.Model.Name == "" {
		return errors.New("model.name is required when a model provider is configured")
	}
	if strings.EqualFold(c.Model.Provider, "gemini") && strings.HasPrefix(strings.ToLower(c.Model.Name), "gpt-") {
		return fmt.Errorf("model.name '%s' is an OpenAI model but model.provider is gemini", c.Model.Name)
	}

	switch strings.ReplaceAll(strings.ToLower(c.Model.Strategy), "-", "_") {
	case "", "batch", "per_site":
	default:
		return fmt.Errorf("model.strategy must be 'batch' or 'per_site', got '%s'", c.Model.Strategy)
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("model.temperature must be between 0 and 2, got %v", c.Model.Temperature)
	}
	if c.Model.Timeout <= 0 {
		return errors.New("model.timeout must be positive")
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got '%s'", c.Log.Format)
	}

	for provider, models := range c.Pricing {
		if provider == "" {
			return errors.New("pricing contains an empty provider name")
		}
		for model, price := range models {
			if model == "" {
				return fmt.Errorf("pricing for provider '%s' contains an empty model name", provider)
			}
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", provider, model)
			}
		}
	}

	return nil
}
