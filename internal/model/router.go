package model

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/harunnryd/pace/internal/config"
	paceErrors "github.com/harunnryd/pace/internal/errors"
	"github.com/harunnryd/pace/internal/logger"
	"github.com/harunnryd/pace/internal/model/contract"
	anthropicProvider "github.com/harunnryd/pace/internal/model/providers/anthropic"
	geminiProvider "github.com/harunnryd/pace/internal/model/providers/gemini"
	openaiProvider "github.com/harunnryd/pace/internal/model/providers/openai"

	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModelRouter implements ModelRouter interface
type DefaultModelRouter struct {
	cfg       config.ModelsConfig
	providers map[string]Provider
	mu        sync.RWMutex
}

// NewModelRouter creates a new model router
func NewModelRouter(cfg config.ModelsConfig) (*DefaultModelRouter, error) {
	router := &DefaultModelRouter{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}

	if err := router.initProviders(); err != nil {
		return nil, err
	}

	return router, nil
}

// Register adds or replaces the provider serving a model name.
func (r *DefaultModelRouter) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Route routes a completion request to the appropriate provider
func (r *DefaultModelRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	traceID := logger.GetTraceID(ctx)

	slog.Info("Routing completion request", "model", model, "trace_id", traceID)

	resolved, provider, err := r.resolveProvider(ctx, model)
	if err != nil {
		return nil, err
	}

	return r.executeWithFallback(ctx, resolved, provider, req, traceID)
}

// ListModels returns all registered model names
func (r *DefaultModelRouter) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.providers))
	for name := range r.providers {
		models = append(models, name)
	}
	sort.Strings(models)

	return models
}

// initProviders initializes all providers from configuration
func (r *DefaultModelRouter) initProviders() error {
	for _, entry := range r.cfg.Registry {
		provider, err := r.createProvider(entry)
		if err != nil {
			slog.Warn("Failed to create provider", "provider", entry.Provider, "model", entry.Name, "error", err)
			continue
		}

		r.providers[entry.Name] = provider
		slog.Debug("Provider initialized", "name", entry.Name, "type", entry.Provider)
	}

	if len(r.providers) == 0 && len(r.cfg.Registry) > 0 {
		return paceErrors.Internal("no providers initialized")
	}

	return nil
}

// resolveProvider resolves a provider by model name with fallback
func (r *DefaultModelRouter) resolveProvider(ctx context.Context, model string) (string, Provider, error) {
	select {
	case <-ctx.Done():
		return "", nil, paceErrors.Wrap(ctx.Err(), "provider resolution cancelled")
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if provider, exists := r.providers[model]; exists {
		return model, provider, nil
	}

	slog.Warn("Model not found", "model", model)

	if r.cfg.Fallback != "" && model != r.cfg.Fallback {
		if fallbackProvider, ok := r.providers[r.cfg.Fallback]; ok {
			slog.Info("Using fallback model", "model", model, "fallback", r.cfg.Fallback)
			return r.cfg.Fallback, fallbackProvider, nil
		}
	}

	return "", nil, paceErrors.NotFound(fmt.Sprintf("model %s not found", model))
}

// executeWithFallback executes a request with fallback logic
func (r *DefaultModelRouter) executeWithFallback(ctx context.Context, model string, provider Provider, req contract.CompletionRequest, traceID string) (*contract.CompletionResponse, error) {
	maxAttempts := r.cfg.MaxFallbackAttempts
	if maxAttempts <= 0 {
		maxAttempts = config.DefaultModelMaxFallback
	}

	currentModel := model
	currentProvider := provider

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, paceErrors.Wrap(ctx.Err(), "request execution cancelled")
		default:
		}

		req.Model = currentModel
		resp, err := currentProvider.Generate(ctx, req)
		if err == nil {
			slog.Info("Request completed", "model", currentModel, "attempt", attempt+1, "trace_id", traceID)
			return resp, nil
		}

		slog.Error("Provider request failed", "model", currentModel, "attempt", attempt+1, "error", err, "trace_id", traceID)

		if ctx.Err() != nil {
			return nil, paceErrors.Wrap(ctx.Err(), "provider request cancelled")
		}
		if r.cfg.Fallback == "" || currentModel == r.cfg.Fallback {
			return nil, paceErrors.Transient(fmt.Sprintf("provider request failed: %v", err))
		}

		r.mu.RLock()
		fallbackProvider, exists := r.providers[r.cfg.Fallback]
		r.mu.RUnlock()
		if !exists {
			return nil, paceErrors.NotFound(fmt.Sprintf("fallback model %s not found", r.cfg.Fallback))
		}

		slog.Info("Attempting fallback", "from", currentModel, "to", r.cfg.Fallback)
		currentModel = r.cfg.Fallback
		currentProvider = fallbackProvider
	}

	return nil, paceErrors.Transient("fallback exhausted")
}

// createProvider creates a provider instance based on registry entry
func (r *DefaultModelRouter) createProvider(entry config.ModelRegistry) (Provider, error) {
	requestTimeout, err := config.DurationOrDefault(entry.RequestTimeout, config.DefaultModelRequestTimeout)
	if err != nil {
		return nil, paceErrors.InvalidInput(fmt.Sprintf("invalid request_timeout for model %s: %v", entry.Name, err))
	}

	switch entry.Provider {
	case "openai":
		baseURL := entry.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOpenAIBaseURL
		}

		if entry.APIKey == "" {
			return nil, paceErrors.InvalidInput("API key required for OpenAI provider")
		}

		return NewProviderAdapter(openaiProvider.New(entry.APIKey, baseURL, entry.Name, requestTimeout), entry.Name, "openai"), nil

	case "ollama":
		baseURL := entry.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOllamaBaseURL
		}

		apiKey := entry.APIKey
		if apiKey == "" {
			apiKey = config.DefaultOllamaAPIKey
		}

		return NewProviderAdapter(openaiProvider.New(apiKey, baseURL, entry.Name, requestTimeout), entry.Name, "ollama"), nil

	case "anthropic":
		if entry.APIKey == "" {
			return nil, paceErrors.InvalidInput("API key required for Anthropic provider")
		}

		opts := []option.RequestOption{option.WithRequestTimeout(requestTimeout)}
		if entry.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(entry.BaseURL))
		}

		return NewProviderAdapter(anthropicProvider.New(entry.APIKey, opts...), entry.Name, "anthropic"), nil

	case "gemini":
		if entry.APIKey == "" {
			return nil, paceErrors.InvalidInput("API key required for Gemini provider")
		}

		provider, err := geminiProvider.New(entry.APIKey, entry.BaseURL, requestTimeout)
		if err != nil {
			return nil, paceErrors.WrapWithCategory(err, "failed to create Gemini provider", paceErrors.ErrInternal)
		}

		return NewProviderAdapter(provider, entry.Name, "gemini"), nil

	default:
		return nil, paceErrors.InvalidInput(fmt.Sprintf("unknown provider type: %s", entry.Provider))
	}
}
