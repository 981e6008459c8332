package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiModels lists commonly available Gemini models.
var geminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

// GeminiProvider implements LLMProvider over the Gemini API via genai.
type GeminiProvider struct {
	model  string
	cfg    genai.ClientConfig
	client *genai.Client
}

// GeminiOption configures the Gemini provider.
type GeminiOption func(*GeminiProvider)

// WithGeminiModel sets the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(p *GeminiProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithGeminiBaseURL sets a custom API base URL.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(p *GeminiProvider) { p.cfg.HTTPOptions.BaseURL = url }
}

// WithGeminiHTTPClient sets a custom HTTP client.
func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(p *GeminiProvider) { p.cfg.HTTPClient = client }
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, ProviderGemini)
	}
	p := &GeminiProvider{
		model: "gemini-2.5-flash",
		cfg: genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	client, err := genai.NewClient(ctx, &p.cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *GeminiProvider) Name() string     { return ProviderGemini }
func (p *GeminiProvider) Models() []string { return geminiModels }

// Ping sends a minimal one-token request.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	_, err := p.Chat(ctx, []Message{UserMessage("ping")}, &ChatOptions{MaxTokens: 1})
	if err != nil && !errors.Is(err, ErrEmptyResponse) {
		return err
	}
	return nil
}

// Chat calls GenerateContent. System messages become the system instruction;
// assistant turns map to the "model" role.
func (p *GeminiProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	start := time.Now()
	model := p.model
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}

	system, conv := splitSystem(messages)
	contents := make([]*genai.Content, 0, len(conv))
	for _, m := range conv {
		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(m.Content)},
		})
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts != nil {
		if opts.Temperature > 0 {
			config.Temperature = genai.Ptr(float32(opts.Temperature))
		}
		if opts.MaxTokens > 0 {
			config.MaxOutputTokens = int32(opts.MaxTokens)
		}
		config.StopSequences = opts.Stop
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	var text strings.Builder
	var finish string
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				text.WriteString(part.Text)
			}
		}
		if text.Len() > 0 {
			finish = string(candidate.FinishReason)
			break
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: gemini returned no text", ErrEmptyResponse)
	}

	r := &Response{
		Content:      text.String(),
		FinishReason: mapFinishReason(finish),
		Model:        model,
		Provider:     ProviderGemini,
		Latency:      time.Since(start),
	}
	if resp.ModelVersion != "" {
		r.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		r.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return r, nil
}

// mapGeminiError classifies genai errors by their status text.
func mapGeminiError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"), strings.Contains(msg, "PERMISSION_DENIED"), strings.Contains(msg, "UNAUTHENTICATED"):
		return fmt.Errorf("%w: gemini: %v", ErrNoAPIKey, err)
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return fmt.Errorf("%w: gemini: %v", ErrRateLimit, err)
	case strings.Contains(msg, "NOT_FOUND"):
		return fmt.Errorf("%w: gemini: %v", ErrInvalidModel, err)
	}
	return fmt.Errorf("%w: gemini: %v", ErrProviderDown, err)
}
