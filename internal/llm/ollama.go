package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaURL is the default local Ollama server.
const DefaultOllamaURL = "http://localhost:11434"

// ollamaModels lists commonly used Ollama models.
var ollamaModels = []string{
	"llama3.3:70b",
	"llama3.1:8b",
	"qwen2.5:14b",
	"qwen2.5:7b",
	"mistral:7b",
	"gemma2:27b",
}

// OllamaProvider implements LLMProvider for local Ollama instances.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// OllamaOption configures the Ollama provider.
type OllamaOption func(*OllamaProvider)

// WithOllamaModel sets the default model.
func WithOllamaModel(model string) OllamaOption {
	return func(p *OllamaProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithOllamaHTTPClient sets a custom HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(p *OllamaProvider) { p.client = client }
}

// NewOllamaProvider creates an Ollama provider.
// baseURL is the Ollama server URL (e.g., "http://localhost:11434").
func NewOllamaProvider(baseURL string, opts ...OllamaOption) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	p := &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   "llama3.1:8b",
		client:  &http.Client{Timeout: 300 * time.Second}, // local models are slow
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *OllamaProvider) Name() string     { return ProviderOllama }
func (p *OllamaProvider) Models() []string { return ollamaModels }

// Ping checks if the Ollama server is reachable.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrProviderDown, resp.StatusCode)
	}
	return nil
}

// Chat sends a non-streaming chat request to Ollama's /api/chat endpoint.
func (p *OllamaProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	start := time.Now()
	model := p.resolveModel(opts)

	data, err := json.Marshal(p.buildRequest(messages, model, opts))
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: ollama: %s", ErrInvalidModel, strings.TrimSpace(string(bodyBytes)))
		}
		return nil, fmt.Errorf("ollama: HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}

	return p.parseResponse(&result, model, start), nil
}

// ── Internal Types ──

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64  `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// ── Helpers ──

func (p *OllamaProvider) resolveModel(opts *ChatOptions) string {
	if opts != nil && opts.Model != "" {
		return opts.Model
	}
	return p.model
}

func (p *OllamaProvider) buildRequest(messages []Message, model string, opts *ChatOptions) ollamaChatRequest {
	r := ollamaChatRequest{
		Model:    model,
		Messages: make([]ollamaMessage, len(messages)),
	}
	for i, m := range messages {
		r.Messages[i] = ollamaMessage{Role: string(m.Role), Content: m.Content}
	}
	if opts != nil {
		o := &ollamaOptions{}
		hasOpts := false
		if opts.Temperature > 0 {
			o.Temperature = opts.Temperature
			hasOpts = true
		}
		if opts.MaxTokens > 0 {
			o.NumPredict = opts.MaxTokens
			hasOpts = true
		}
		if len(opts.Stop) > 0 {
			o.Stop = opts.Stop
			hasOpts = true
		}
		if hasOpts {
			r.Options = o
		}
	}
	return r
}

func (p *OllamaProvider) parseResponse(raw *ollamaChatResponse, model string, start time.Time) *Response {
	r := &Response{
		Model:        raw.Model,
		Provider:     ProviderOllama,
		Latency:      time.Since(start),
		Content:      raw.Message.Content,
		FinishReason: FinishStop,
		Usage: Usage{
			PromptTokens:     raw.PromptEvalCount,
			CompletionTokens: raw.EvalCount,
			TotalTokens:      raw.PromptEvalCount + raw.EvalCount,
		},
	}
	if raw.DoneReason != "" {
		r.FinishReason = mapFinishReason(raw.DoneReason)
	}
	if r.Model == "" {
		r.Model = model
	}
	return r
}
