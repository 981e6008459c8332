package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var providerEnvVars = []string{"GROQ_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY"}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, e := range providerEnvVars {
		t.Setenv(e, "")
	}
}

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Portfolio, DefaultPortfolio) {
		t.Errorf("Portfolio: got %v, want %v", cfg.Portfolio, DefaultPortfolio)
	}
	if !reflect.DeepEqual(cfg.Indices, DefaultIndices) {
		t.Errorf("Indices: got %v, want %v", cfg.Indices, DefaultIndices)
	}

	// News defaults
	if cfg.News.PerStock != 3 {
		t.Errorf("News.PerStock: got %d, want 3", cfg.News.PerStock)
	}
	if cfg.News.Market != 10 {
		t.Errorf("News.Market: got %d, want 10", cfg.News.Market)
	}
	if cfg.News.FeedBaseURL != "https://news.google.com/rss/search" {
		t.Errorf("News.FeedBaseURL: got %q", cfg.News.FeedBaseURL)
	}

	// LLM defaults
	if cfg.LLM.Primary != "groq" {
		t.Errorf("LLM.Primary: got %q, want %q", cfg.LLM.Primary, "groq")
	}
	if cfg.LLM.Model != "llama-3.3-70b-versatile" {
		t.Errorf("LLM.Model: got %q", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("LLM.Temperature: got %f, want 0.3", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 3000 {
		t.Errorf("LLM.MaxTokens: got %d, want 3000", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.MaxRetries != 0 {
		t.Errorf("LLM.MaxRetries: got %d, want 0", cfg.LLM.MaxRetries)
	}
	if cfg.LLM.RetryDelay != time.Second {
		t.Errorf("LLM.RetryDelay: got %v, want 1s", cfg.LLM.RetryDelay)
	}
	if cfg.LLM.GroqURL != "https://api.groq.com/openai/v1" {
		t.Errorf("LLM.GroqURL: got %q", cfg.LLM.GroqURL)
	}
	if cfg.LLM.OllamaURL != "http://localhost:11434" {
		t.Errorf("LLM.OllamaURL: got %q", cfg.LLM.OllamaURL)
	}

	// Report defaults
	if cfg.Report.OutputDir != "." {
		t.Errorf("Report.OutputDir: got %q, want %q", cfg.Report.OutputDir, ".")
	}
	if !cfg.Report.HTMLEnabled {
		t.Error("Report.HTMLEnabled should be true by default")
	}

	if cfg.Schedule.Cron != "30 6 * * *" {
		t.Errorf("Schedule.Cron: got %q", cfg.Schedule.Cron)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if !reflect.DeepEqual(cfg.Logging.Output, []string{"console"}) {
		t.Errorf("Logging.Output: got %v", cfg.Logging.Output)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	clearProviderEnv(t)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
portfolio: ["amzn", " meta ", ""]
indices:
  - symbol: "^DJI"
    name: "Dow Jones"
news:
  per_stock: 5
llm:
  primary: "anthropic"
  model: "claude-sonnet-4-5"
  temperature: 0.2
  fallbacks: ["gemini", "ollama"]
  anthropic_key: "sk-ant-file-key-1234"
report:
  output_dir: "/tmp/briefs"
  html_enabled: false
logging:
  level: "debug"
  output: ["console", "file"]
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Portfolio, []string{"AMZN", "META"}) {
		t.Errorf("Portfolio: got %v", cfg.Portfolio)
	}
	if len(cfg.Indices) != 1 || cfg.Indices[0].Symbol != "^DJI" || cfg.Indices[0].Name != "Dow Jones" {
		t.Errorf("Indices: got %+v", cfg.Indices)
	}
	if cfg.News.PerStock != 5 {
		t.Errorf("News.PerStock: got %d, want 5", cfg.News.PerStock)
	}
	if cfg.News.Market != 10 {
		t.Errorf("News.Market should keep default 10, got %d", cfg.News.Market)
	}
	if cfg.LLM.Primary != "anthropic" {
		t.Errorf("LLM.Primary: got %q", cfg.LLM.Primary)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("LLM.Temperature: got %f, want 0.2", cfg.LLM.Temperature)
	}
	if !reflect.DeepEqual(cfg.LLM.Fallbacks, []string{"gemini", "ollama"}) {
		t.Errorf("LLM.Fallbacks: got %v", cfg.LLM.Fallbacks)
	}
	if cfg.LLM.AnthropicKey != "sk-ant-file-key-1234" {
		t.Errorf("LLM.AnthropicKey: got %q", cfg.LLM.AnthropicKey)
	}
	if cfg.Report.OutputDir != "/tmp/briefs" {
		t.Errorf("Report.OutputDir: got %q", cfg.Report.OutputDir)
	}
	if cfg.Report.HTMLEnabled {
		t.Error("Report.HTMLEnabled should be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadEnvPrefixOverride(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("MARKETBRIEF_LLM_MODEL", "llama-3.1-8b-instant")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.Model != "llama-3.1-8b-instant" {
		t.Errorf("LLM.Model: got %q", cfg.LLM.Model)
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	cfg := &Config{}

	t.Setenv("GROQ_API_KEY", "gsk-test-groq-key")
	t.Setenv("OPENAI_API_KEY", "sk-test-openai-key-123456")
	t.Setenv("GEMINI_API_KEY", "gemini-key-789")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	overrideFromEnv(cfg)

	if cfg.LLM.GroqKey != "gsk-test-groq-key" {
		t.Errorf("GroqKey: got %q", cfg.LLM.GroqKey)
	}
	if cfg.LLM.OpenAIKey != "sk-test-openai-key-123456" {
		t.Errorf("OpenAIKey: got %q", cfg.LLM.OpenAIKey)
	}
	if cfg.LLM.GeminiKey != "gemini-key-789" {
		t.Errorf("GeminiKey: got %q", cfg.LLM.GeminiKey)
	}
	if cfg.LLM.AnthropicKey != "sk-ant-test" {
		t.Errorf("AnthropicKey: got %q", cfg.LLM.AnthropicKey)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	clearProviderEnv(t)

	cfg := &Config{
		LLM: LLMConfig{GroqKey: "from-config"},
	}
	overrideFromEnv(cfg)

	if cfg.LLM.GroqKey != "from-config" {
		t.Errorf("GroqKey should stay as 'from-config' when env is unset, got %q", cfg.LLM.GroqKey)
	}
}

// ── normalize ──

func TestNormalizeEmptyPortfolio(t *testing.T) {
	cfg := &Config{Portfolio: []string{" ", ""}}
	normalize(cfg)

	if len(cfg.Portfolio) != 0 {
		t.Errorf("Portfolio: got %v, want empty", cfg.Portfolio)
	}
	if len(cfg.Indices) != len(DefaultIndices) {
		t.Errorf("Indices: got %d, want %d", len(cfg.Indices), len(DefaultIndices))
	}
}

func TestNormalizeClampsNewsLimits(t *testing.T) {
	cfg := &Config{
		Portfolio: []string{" aapl ", "msft"},
		News:      NewsConfig{PerStock: -1, Market: -5},
	}
	normalize(cfg)

	if !reflect.DeepEqual(cfg.Portfolio, []string{"AAPL", "MSFT"}) {
		t.Errorf("Portfolio: got %v", cfg.Portfolio)
	}
	if cfg.News.PerStock != 0 {
		t.Errorf("News.PerStock: got %d, want 0", cfg.News.PerStock)
	}
	if cfg.News.Market != 0 {
		t.Errorf("News.Market: got %d, want 0", cfg.News.Market)
	}
}

func TestLoadNegativePerStockFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("MARKETBRIEF_NEWS_PER_STOCK", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.News.PerStock != 0 {
		t.Errorf("News.PerStock: got %d, want 0", cfg.News.PerStock)
	}
}

// ── maskKey ──

func TestMaskKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"abcd", "***"},
		{"12345678", "***"},
		{"123456789", "123...789"},
		{"gsk_abcdef1234567890xyz", "gsk...xyz"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── CheckAPIKeys / checkKey ──

func TestCheckAPIKeysAllEmpty(t *testing.T) {
	clearProviderEnv(t)

	statuses := CheckAPIKeys(&Config{})

	if len(statuses) != 4 {
		t.Fatalf("CheckAPIKeys: got %d statuses, want 4", len(statuses))
	}
	for _, s := range statuses {
		if s.IsSet {
			t.Errorf("Key %q should not be set", s.Name)
		}
		if s.Source != KeySourceNone {
			t.Errorf("Key %q source: got %q, want %q", s.Name, s.Source, KeySourceNone)
		}
	}
}

func TestCheckAPIKeysSources(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-env-key-for-testing")

	cfg := &Config{
		LLM: LLMConfig{
			GroqKey:   "gsk-env-key-for-testing",
			OpenAIKey: "sk-test-very-long-key-value",
		},
	}

	byName := make(map[string]KeyStatus)
	for _, s := range CheckAPIKeys(cfg) {
		byName[s.Name] = s
	}

	if s := byName["Groq API Key"]; s.Source != KeySourceEnv {
		t.Errorf("Groq source: got %q, want %q", s.Source, KeySourceEnv)
	}
	s := byName["OpenAI API Key"]
	if s.Source != KeySourceConfig {
		t.Errorf("OpenAI source: got %q, want %q", s.Source, KeySourceConfig)
	}
	if s.Masked != "sk-...lue" {
		t.Errorf("Masked: got %q, want %q", s.Masked, "sk-...lue")
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() should not return empty string")
	}
}
