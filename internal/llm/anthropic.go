package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicModels lists commonly available Anthropic models.
var anthropicModels = []string{
	"claude-sonnet-4-5",
	"claude-opus-4-1",
	"claude-haiku-4-5",
	"claude-3-5-haiku-latest",
}

// defaultAnthropicMaxTokens applies when the request sets no limit; the
// Messages API requires one.
const defaultAnthropicMaxTokens = 4096

// AnthropicProvider implements LLMProvider over the Anthropic Messages API.
type AnthropicProvider struct {
	model   string
	client  anthropic.Client
	reqOpts []option.RequestOption
}

// AnthropicOption configures the Anthropic provider.
type AnthropicOption func(*AnthropicProvider)

// WithAnthropicModel sets the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(p *AnthropicProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithAnthropicBaseURL sets a custom base URL.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(p *AnthropicProvider) {
		p.reqOpts = append(p.reqOpts, option.WithBaseURL(strings.TrimRight(url, "/")+"/"))
	}
}

// WithAnthropicHTTPClient sets a custom HTTP client.
func WithAnthropicHTTPClient(client *http.Client) AnthropicOption {
	return func(p *AnthropicProvider) {
		p.reqOpts = append(p.reqOpts, option.WithHTTPClient(client))
	}
}

// NewAnthropicProvider creates an Anthropic provider. SDK retries are off;
// fallback is the router's job.
func NewAnthropicProvider(apiKey string, opts ...AnthropicOption) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, ProviderAnthropic)
	}
	p := &AnthropicProvider{
		model: "claude-sonnet-4-5",
		reqOpts: []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
			option.WithRequestTimeout(120 * time.Second),
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = anthropic.NewClient(p.reqOpts...)
	return p, nil
}

func (p *AnthropicProvider) Name() string     { return ProviderAnthropic }
func (p *AnthropicProvider) Models() []string { return anthropicModels }

// Ping sends a minimal one-token request.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.Chat(ctx, []Message{UserMessage("ping")}, &ChatOptions{MaxTokens: 1})
	if err != nil && !errors.Is(err, ErrEmptyResponse) {
		return err
	}
	return nil
}

// Chat sends a Messages API request. System messages travel in the
// top-level system field.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	start := time.Now()
	model := p.model
	maxTokens := defaultAnthropicMaxTokens
	if opts != nil {
		if opts.Model != "" {
			model = opts.Model
		}
		if opts.MaxTokens > 0 {
			maxTokens = opts.MaxTokens
		}
	}

	system, conv := splitSystem(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(conv)),
	}
	for _, m := range conv {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if opts != nil {
		if opts.Temperature > 0 {
			params.Temperature = anthropic.Float(opts.Temperature)
		}
		if len(opts.Stop) > 0 {
			params.StopSequences = opts.Stop
		}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: anthropic returned no text", ErrEmptyResponse)
	}

	return &Response{
		Content:      text.String(),
		FinishReason: mapFinishReason(string(resp.StopReason)),
		Model:        string(resp.Model),
		Provider:     ProviderAnthropic,
		Latency:      time.Since(start),
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: anthropic: %v", ErrNoAPIKey, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: anthropic: %v", ErrRateLimit, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: anthropic: %v", ErrInvalidModel, err)
		}
		return fmt.Errorf("anthropic: API error (%d): %w", apiErr.StatusCode, err)
	}
	return fmt.Errorf("%w: anthropic: %v", ErrProviderDown, err)
}
