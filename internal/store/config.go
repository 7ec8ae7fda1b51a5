package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr            string `yaml:"addr"`
		ShutdownSeconds int    `yaml:"shutdown_seconds"`
	} `yaml:"server"`
	Classifier struct {
		BaseURL        string  `yaml:"base_url"`
		Model          string  `yaml:"model"`
		APIKeyEnv      string  `yaml:"api_key_env"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"classifier"`
	Analysis struct {
		ChunkSize          int     `yaml:"chunk_size"`
		MaxWordImportances int     `yaml:"max_word_importances"`
		TopWords           int     `yaml:"top_words"`
		MinImportance      float64 `yaml:"min_importance"`
		CacheTTLMinutes    int     `yaml:"cache_ttl_minutes"`
	} `yaml:"analysis"`
	News struct {
		Feeds          []string `yaml:"feeds"`
		MaxArticles    int      `yaml:"max_articles"`
		ScrapeContent  bool     `yaml:"scrape_content"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.Classifier.Model == "" {
		return fmt.Errorf("classifier.model cannot be empty")
	}
	if c.Analysis.ChunkSize <= 0 {
		return fmt.Errorf("analysis.chunk_size must be positive, got %d", c.Analysis.ChunkSize)
	}
	if c.Analysis.MaxWordImportances <= 0 {
		return fmt.Errorf("analysis.max_word_importances must be positive, got %d", c.Analysis.MaxWordImportances)
	}
	if c.Analysis.MinImportance < 0 || c.Analysis.MinImportance >= 1 {
		return fmt.Errorf("analysis.min_importance must be in [0, 1), got %.2f", c.Analysis.MinImportance)
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		return fmt.Errorf("classifier.timeout_seconds must be positive, got %d", c.Classifier.TimeoutSeconds)
	}
	return nil
}

// ClassifierTimeout returns the per-call deadline for the classifier boundary.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long analysis results stay cached.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Analysis.CacheTTLMinutes) * time.Minute
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// Default returns a configuration with every default applied, for callers
// that run without a config file (CLI, tests).
func Default() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.ShutdownSeconds == 0 {
		c.Server.ShutdownSeconds = 10
	}
	if c.Classifier.BaseURL == "" {
		c.Classifier.BaseURL = "https://ai.gateway.lovable.dev/v1"
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = "google/gemini-2.5-flash"
	}
	if c.Classifier.APIKeyEnv == "" {
		c.Classifier.APIKeyEnv = "LOVABLE_API_KEY"
	}
	if c.Classifier.MaxTokens == 0 {
		c.Classifier.MaxTokens = 500
	}
	if c.Classifier.Temperature == 0 {
		c.Classifier.Temperature = 0.3
	}
	if c.Classifier.TimeoutSeconds == 0 {
		c.Classifier.TimeoutSeconds = 30
	}
	if c.Analysis.ChunkSize == 0 {
		c.Analysis.ChunkSize = 5
	}
	if c.Analysis.MaxWordImportances == 0 {
		c.Analysis.MaxWordImportances = 15
	}
	if c.Analysis.TopWords == 0 {
		c.Analysis.TopWords = 5
	}
	if c.Analysis.MinImportance == 0 {
		c.Analysis.MinImportance = 0.1
	}
	if c.Analysis.CacheTTLMinutes == 0 {
		c.Analysis.CacheTTLMinutes = 60
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 15
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 30
	}
	if len(c.News.Feeds) == 0 {
		c.News.Feeds = []string{
			"https://feeds.finance.yahoo.com/rss/2.0/headline?s=^GSPC&region=US&lang=en-US",
			"https://www.moneycontrol.com/rss/marketreports.xml",
		}
	}
}
