package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Data struct {
		CategoriesFile string `mapstructure:"categories_file"`
		WebsitesFile   string `mapstructure:"websites_file"`
	} `mapstructure:"data"`

	Detection struct {
		Match string `mapstructure:"match"` // "word" or "substring"
	} `mapstructure:"detection"`

	Model struct {
		Provider     string        `mapstructure:"provider"` // "openai", "gemini" or "none"
		Name         string        `mapstructure:"name"`
		Temperature  float64       `mapstructure:"temperature"`
		Timeout      time.Duration `mapstructure:"timeout"`
		Strategy     string        `mapstructure:"strategy"` // "batch" or "per_site"
		BaseURL      string        `mapstructure:"base_url"` // OpenAI-compatible endpoint override
		BatchPrompt  string        `mapstructure:"batch_prompt"`
		SitePrompt   string        `mapstructure:"site_prompt"`
		OpenaiApiKey string        `mapstructure:"openai_api_key"`
		GoogleApiKey string        `mapstructure:"google_api_key"`
	} `mapstructure:"model"`

	Server struct {
		Addr        string `mapstructure:"addr"`
		Port        string `mapstructure:"port"`
		ReleaseMode bool   `mapstructure:"release_mode"`
	} `mapstructure:"server"`

	Log struct {
		Level      string `mapstructure:"level"`
		Format     string `mapstructure:"format"` // "text" or "json"
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
	} `mapstructure:"log"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

// Defaults used when neither config.yaml nor the environment sets a key.
const (
	DefaultCategoriesFile = "data/categories.json"
	DefaultWebsitesFile   = "data/websites.json"
	DefaultModelProvider  = "openai"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGeminiModel    = "gemini-1.5-flash"
	DefaultTemperature    = 0.2
	DefaultModelTimeout   = 5 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.categories_file", DefaultCategoriesFile)
	v.SetDefault("data.websites_file", DefaultWebsitesFile)
	v.SetDefault("detection.match", "word")
	v.SetDefault("model.provider", DefaultModelProvider)
	v.SetDefault("model.temperature", DefaultTemperature)
	v.SetDefault("model.timeout", DefaultModelTimeout)
	v.SetDefault("model.strategy", "batch")
	// Registered so SHOPMATE_* overrides reach Unmarshal.
	v.SetDefault("model.name", "")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.batch_prompt", "")
	v.SetDefault("model.site_prompt", "")
	v.SetDefault("server.release_mode", false)
	v.SetDefault("log.file", "")
	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("pricing.openai.gpt-4o-mini.input_per_token", 0.00000015)
	v.SetDefault("pricing.openai.gpt-4o-mini.output_per_token", 0.0000006)
}

// LoadConfig reads config.yaml from the working directory, if present, and
// overlays SHOPMATE_* environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.New(), ".")
}

// LoadConfigFrom loads configuration into v, searching the given directories
// for config.yaml.
func LoadConfigFrom(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// SHOPMATE_MODEL_PROVIDER -> model.provider, and so on.
	v.SetEnvPrefix("SHOPMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys come from their usual variables, without the prefix.
	v.BindEnv("model.openai_api_key", "SHOPMATE_MODEL_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("model.google_api_key", "SHOPMATE_MODEL_GOOGLE_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist; defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	config.Model.OpenaiApiKey = strings.TrimSpace(config.Model.OpenaiApiKey)
	config.Model.GoogleApiKey = strings.TrimSpace(config.Model.GoogleApiKey)
	if strings.TrimSpace(config.Model.Name) == "" {
		config.Model.Name = DefaultModelFor(config.Model.Provider)
	}
	return &config, nil
}

// DefaultModelFor returns the model used when model.name is unset.
func DefaultModelFor(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return DefaultOpenAIModel
	case "gemini":
		return DefaultGeminiModel
	}
	return ""
}

// ModelPricing returns the pricing table for the configured provider.
func (c *Config) ModelPricing() map[string]PricingInfo {
	return c.Pricing[strings.ToLower(c.Model.Provider)]
}
