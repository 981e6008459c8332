package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/marketbrief/internal/config"
)

// Router routes LLM requests to the primary provider and falls back through
// the configured chain when it fails. It satisfies LLMProvider.
type Router struct {
	mu         sync.RWMutex
	providers  map[string]LLMProvider
	primary    string
	fallbacks  []string
	maxRetries int
	retryDelay time.Duration
	logger     arbor.ILogger
}

// RouterOption configures the router.
type RouterOption func(*Router)

// WithFallbacks sets the fallback provider chain.
func WithFallbacks(providers ...string) RouterOption {
	return func(r *Router) { r.fallbacks = providers }
}

// WithMaxRetries sets the number of retry attempts per provider.
func WithMaxRetries(n int) RouterOption {
	return func(r *Router) { r.maxRetries = n }
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) RouterOption {
	return func(r *Router) { r.retryDelay = d }
}

// WithRouterLogger sets the logger.
func WithRouterLogger(logger arbor.ILogger) RouterOption {
	return func(r *Router) { r.logger = logger }
}

// NewRouter creates a new LLM router with the given primary provider.
// Each provider gets a single attempt unless WithMaxRetries says otherwise.
func NewRouter(primary string, opts ...RouterOption) *Router {
	r := &Router{
		providers:  make(map[string]LLMProvider),
		primary:    primary,
		maxRetries: 0,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = arbor.NewLogger()
	}
	return r
}

// RegisterProvider adds a provider to the router.
func (r *Router) RegisterProvider(provider LLMProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// GetProvider returns a registered provider by name.
func (r *Router) GetProvider(name string) (LLMProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Primary returns the primary provider.
func (r *Router) Primary() (LLMProvider, error) {
	p, ok := r.GetProvider(r.primary)
	if !ok {
		return nil, fmt.Errorf("%w: primary provider %q not registered", ErrNoProviders, r.primary)
	}
	return p, nil
}

// Chat routes a chat request through the provider chain with fallback.
// It tries the primary provider first, then falls back in order.
func (r *Router) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	var lastErr error
	tried := 0
	for _, providerName := range r.providerChain() {
		provider, ok := r.GetProvider(providerName)
		if !ok {
			continue
		}
		tried++

		resp, err := r.chatWithRetry(ctx, provider, messages, opts)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		r.logger.Warn().Err(err).Str("provider", providerName).Msg("LLM provider failed")

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if tried == 0 {
		return nil, ErrNoProviders
	}
	return nil, fmt.Errorf("llm/router: all providers failed, last error: %w", lastErr)
}

// HealthCheck pings all registered providers and returns their status.
func (r *Router) HealthCheck(ctx context.Context) map[string]error {
	r.mu.RLock()
	providers := make(map[string]LLMProvider, len(r.providers))
	for k, v := range r.providers {
		providers[k] = v
	}
	r.mu.RUnlock()

	results := make(map[string]error, len(providers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, provider := range providers {
		wg.Add(1)
		go func(n string, p LLMProvider) {
			defer wg.Done()
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			err := p.Ping(pingCtx)
			mu.Lock()
			results[n] = err
			mu.Unlock()
		}(name, provider)
	}

	wg.Wait()
	return results
}

// Name returns the name of the primary provider (satisfies LLMProvider).
func (r *Router) Name() string {
	return "router/" + r.primary
}

// Models returns the union of models from all registered providers (satisfies LLMProvider).
func (r *Router) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []string
	seen := make(map[string]bool)
	for _, p := range r.providers {
		for _, m := range p.Models() {
			if !seen[m] {
				seen[m] = true
				all = append(all, m)
			}
		}
	}
	return all
}

// Ping checks the primary provider's health (satisfies LLMProvider).
func (r *Router) Ping(ctx context.Context) error {
	p, err := r.Primary()
	if err != nil {
		return err
	}
	return p.Ping(ctx)
}

// ProviderNames returns registered provider names in chain order.
func (r *Router) ProviderNames() []string {
	var names []string
	for _, name := range r.providerChain() {
		if _, ok := r.GetProvider(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// ── Internal Helpers ──

func (r *Router) providerChain() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain := []string{r.primary}
	for _, fb := range r.fallbacks {
		if fb != r.primary {
			chain = append(chain, fb)
		}
	}
	return chain
}

func (r *Router) chatWithRetry(ctx context.Context, provider LLMProvider, messages []Message, opts *ChatOptions) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.retryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := provider.Chat(ctx, messages, opts)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if isNonRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// isNonRetryable reports auth, model and context-length failures, which
// a retry against the same provider cannot fix.
func isNonRetryable(err error) bool {
	return errors.Is(err, ErrNoAPIKey) ||
		errors.Is(err, ErrInvalidModel) ||
		errors.Is(err, ErrContextLength)
}

// NewRouterFromConfig builds a Router for llm.primary and llm.fallbacks.
// The primary provider uses llm.model; fallbacks use their own default
// models. Providers lacking credentials are skipped with a warning.
func NewRouterFromConfig(ctx context.Context, cfg *config.Config, logger arbor.ILogger) (*Router, error) {
	router := NewRouter(cfg.LLM.Primary,
		WithFallbacks(cfg.LLM.Fallbacks...),
		WithMaxRetries(cfg.LLM.MaxRetries),
		WithRouterLogger(logger),
	)
	if cfg.LLM.RetryDelay > 0 {
		WithRetryDelay(cfg.LLM.RetryDelay)(router)
	}

	registered := 0
	for i, name := range router.providerChain() {
		model := ""
		if i == 0 {
			model = cfg.LLM.Model
		}
		p, err := newProvider(ctx, name, cfg.LLM, model)
		if err != nil {
			router.logger.Warn().Err(err).Str("provider", name).Msg("LLM provider not registered")
			continue
		}
		router.RegisterProvider(p)
		registered++
	}

	if registered == 0 {
		return nil, ErrNoProviders
	}
	return router, nil
}

func newProvider(ctx context.Context, name string, cfg config.LLMConfig, model string) (LLMProvider, error) {
	switch name {
	case ProviderGroq:
		return NewGroqProvider(cfg.GroqKey, WithOpenAIBaseURL(cfg.GroqURL), WithOpenAIModel(model))
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAIKey, WithOpenAIBaseURL(cfg.OpenAIURL), WithOpenAIModel(model))
	case ProviderOllama:
		return NewOllamaProvider(cfg.OllamaURL, WithOllamaModel(model))
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.AnthropicKey, WithAnthropicModel(model))
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.GeminiKey, WithGeminiModel(model))
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidModel, name)
	}
}
