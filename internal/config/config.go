// Package config handles configuration loading for marketbrief.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/seenimoa/marketbrief/pkg/utils"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "MARKETBRIEF"

// Config represents the complete application configuration.
type Config struct {
	Portfolio []string       `mapstructure:"portfolio" yaml:"portfolio"`
	Indices   []IndexConfig  `mapstructure:"indices"   yaml:"indices"`
	News      NewsConfig     `mapstructure:"news"      yaml:"news"`
	LLM       LLMConfig      `mapstructure:"llm"       yaml:"llm"`
	Report    ReportConfig   `mapstructure:"report"    yaml:"report"`
	Schedule  ScheduleConfig `mapstructure:"schedule"  yaml:"schedule"`
	Logging   LoggingConfig  `mapstructure:"logging"   yaml:"logging"`
}

// IndexConfig maps an index symbol to its display name.
type IndexConfig struct {
	Symbol string `mapstructure:"symbol" yaml:"symbol"` // e.g., "^GSPC"
	Name   string `mapstructure:"name"   yaml:"name"`   // e.g., "S&P 500"
}

// NewsConfig holds news collection limits and endpoints.
type NewsConfig struct {
	PerStock    int    `mapstructure:"per_stock"     yaml:"per_stock"`
	Market      int    `mapstructure:"market"        yaml:"market"`
	FeedBaseURL string `mapstructure:"feed_base_url" yaml:"feed_base_url"`
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Primary      string        `mapstructure:"primary"       yaml:"primary"` // "groq", "openai", "ollama", "gemini", "anthropic"
	Model        string        `mapstructure:"model"         yaml:"model"`
	Temperature  float64       `mapstructure:"temperature"   yaml:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"    yaml:"max_tokens"`
	Fallbacks    []string      `mapstructure:"fallbacks"     yaml:"fallbacks"`
	MaxRetries   int           `mapstructure:"max_retries"   yaml:"max_retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"   yaml:"retry_delay"`
	GroqKey      string        `mapstructure:"groq_key"      yaml:"groq_key"`
	GroqURL      string        `mapstructure:"groq_url"      yaml:"groq_url"`
	OpenAIKey    string        `mapstructure:"openai_key"    yaml:"openai_key"`
	OpenAIURL    string        `mapstructure:"openai_url"    yaml:"openai_url"`
	OllamaURL    string        `mapstructure:"ollama_url"    yaml:"ollama_url"`
	GeminiKey    string        `mapstructure:"gemini_key"    yaml:"gemini_key"`
	AnthropicKey string        `mapstructure:"anthropic_key" yaml:"anthropic_key"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	OutputDir   string `mapstructure:"output_dir"   yaml:"output_dir"`
	HTMLEnabled bool   `mapstructure:"html_enabled" yaml:"html_enabled"`
}

// ScheduleConfig holds the daily run schedule.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron" yaml:"cron"` // standard 5-field cron, local time
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string   `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Output []string `mapstructure:"output" yaml:"output"` // "console", "file"
}

// DefaultPortfolio is the watched ticker list when none is configured.
var DefaultPortfolio = []string{"AAPL", "MSFT", "GOOGL", "NVDA", "TSLA"}

// DefaultIndices are the market indices tracked when none are configured.
var DefaultIndices = []IndexConfig{
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "^IXIC", Name: "NASDAQ"},
	{Symbol: "^VIX", Name: "VIX"},
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.marketbrief/config.yaml (home directory)
//  3. /etc/marketbrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: MARKETBRIEF_<SECTION>_<KEY>, e.g., MARKETBRIEF_LLM_MODEL
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".marketbrief"))
	v.AddConfigPath("/etc/marketbrief")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	normalize(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("portfolio", DefaultPortfolio)

	// News defaults
	v.SetDefault("news.per_stock", 3)
	v.SetDefault("news.market", 10)
	v.SetDefault("news.feed_base_url", "https://news.google.com/rss/search")

	// LLM defaults
	v.SetDefault("llm.primary", "groq")
	v.SetDefault("llm.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 3000)
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.groq_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.openai_url", "https://api.openai.com/v1")
	v.SetDefault("llm.ollama_url", "http://localhost:11434")

	// Report defaults
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.html_enabled", true)

	v.SetDefault("schedule.cron", "30 6 * * *")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", []string{"console"})
}

// overrideFromEnv explicitly reads provider keys from their conventional
// environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.LLM.GroqKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.GeminiKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.LLM.AnthropicKey = key
	}
}

// normalize upper-cases tickers, clamps news limits at zero and fills the
// default index list.
func normalize(cfg *Config) {
	tickers := make([]string, 0, len(cfg.Portfolio))
	for _, t := range cfg.Portfolio {
		t = utils.NormalizeTicker(t)
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	cfg.Portfolio = tickers

	cfg.News.PerStock = max(cfg.News.PerStock, 0)
	cfg.News.Market = max(cfg.News.Market, 0)

	if len(cfg.Indices) == 0 {
		cfg.Indices = append([]IndexConfig(nil), DefaultIndices...)
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
