package analyst

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/internal/llm"
	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// rawPreviewRunes bounds how much of an unparseable reply is logged.
const rawPreviewRunes = 500

// Analyst requests a structured brief from a text-generation provider.
type Analyst struct {
	provider llm.LLMProvider
	opts     llm.ChatOptions
	logger   arbor.ILogger
}

// NewAnalyst creates an analyst using the temperature and token limit from cfg.
// The model is left to the provider so fallbacks keep their own defaults.
func NewAnalyst(provider llm.LLMProvider, cfg config.LLMConfig, logger arbor.ILogger) *Analyst {
	return &Analyst{
		provider: provider,
		opts: llm.ChatOptions{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		logger: logger,
	}
}

// Analyze sends one request for snap and returns the parsed result, or nil
// when the provider fails or the reply is not valid JSON. Validation
// findings are logged and do not discard the result.
func (a *Analyst) Analyze(ctx context.Context, snap *models.MarketSnapshot) *models.AnalysisResult {
	if a.provider == nil {
		a.logger.Warn().Msg("No LLM provider available, skipping analysis")
		return nil
	}

	prompt, err := BuildPrompt(snap)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to build analysis prompt")
		return nil
	}

	a.logger.Info().Str("run_id", snap.RunID).Str("provider", a.provider.Name()).Msg("Analyzing market data and news")
	start := time.Now()
	resp, err := a.provider.Chat(ctx, []llm.Message{
		llm.SystemMessage(SystemPrompt),
		llm.UserMessage(prompt),
	}, &a.opts)
	if err != nil {
		a.logger.Error().Err(err).Str("run_id", snap.RunID).Msg("Analysis request failed")
		return nil
	}

	result, err := ParseResponse(resp.Content)
	if err != nil {
		a.logger.Error().Err(err).
			Str("raw_response", utils.Truncate(strings.TrimSpace(resp.Content), rawPreviewRunes)).
			Msg("Failed to parse analysis response")
		return nil
	}

	for _, msg := range Validate(result) {
		a.logger.Warn().Str("run_id", snap.RunID).Str("violation", msg).Msg("Analysis response outside expected schema")
	}

	a.logger.Info().
		Str("run_id", snap.RunID).
		Str("provider", resp.Provider).
		Str("model", resp.Model).
		Int("tokens", resp.Usage.TotalTokens).
		Str("latency", time.Since(start).Round(time.Millisecond).String()).
		Msg("Analysis complete")
	return result
}
