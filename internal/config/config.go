package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string
	Port             string
	DBPath           string
	LogLevel         string

	Search SearchConfig `yaml:"search"`
	Cache  CacheConfig  `yaml:"cache"`
}

// SearchConfig holds the grid search knobs (YAML `search:` block).
type SearchConfig struct {
	MaxAssets int    `yaml:"max_assets"`
	Workers   int    `yaml:"workers"`
	Benchmark string `yaml:"benchmark"`
	ChartPath string `yaml:"chart_path"`
}

// CacheConfig controls the SQLite price cache (YAML `cache:` block).
type CacheConfig struct {
	PriceTTL time.Duration `yaml:"price_ttl"`
}

func defaults() Config {
	return Config{
		Port:     "9095",
		DBPath:   "/app/data/optimizer.db",
		LogLevel: "info",
		Search: SearchConfig{
			MaxAssets: 6,
			Benchmark: "SPY",
			ChartPath: "Portfolio.png",
		},
		Cache: CacheConfig{PriceTTL: 24 * time.Hour},
	}
}

// Load builds the config from defaults, then the YAML file named by CONFIG_FILE (if any),
// then environment variables.
func Load() (Config, error) {
	c := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := c.mergeEnv(); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file struct {
		Port     string       `yaml:"port"`
		DBPath   string       `yaml:"db_path"`
		LogLevel string       `yaml:"log_level"`
		Search   SearchConfig `yaml:"search"`
		Cache    CacheConfig  `yaml:"cache"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Port != "" {
		c.Port = file.Port
	}
	if file.DBPath != "" {
		c.DBPath = file.DBPath
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if file.Search.MaxAssets != 0 {
		c.Search.MaxAssets = file.Search.MaxAssets
	}
	if file.Search.Workers != 0 {
		c.Search.Workers = file.Search.Workers
	}
	if file.Search.Benchmark != "" {
		c.Search.Benchmark = file.Search.Benchmark
	}
	if file.Search.ChartPath != "" {
		c.Search.ChartPath = file.Search.ChartPath
	}
	if file.Cache.PriceTTL != 0 {
		c.Cache.PriceTTL = file.Cache.PriceTTL
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.WebhookPublicURL = os.Getenv("WEBHOOK_PUBLIC_URL")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SEARCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SEARCH_WORKERS %q: %w", v, err)
		}
		c.Search.Workers = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.Search.MaxAssets < 1 {
		return errors.New("search.max_assets must be at least 1")
	}
	if c.Search.Workers < 0 {
		return errors.New("search.workers must not be negative")
	}
	if c.Search.Benchmark == "" {
		return errors.New("search.benchmark is required")
	}
	return nil
}

// ValidateBot checks the settings the telegram webhook needs.
func (c Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return errors.New("missing env TELEGRAM_BOT_TOKEN")
	}
	if c.WebhookPublicURL == "" {
		return errors.New("missing env WEBHOOK_PUBLIC_URL")
	}
	return nil
}
