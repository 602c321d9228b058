// Package generate is the dispatch facade in front of the provider adapters.
// It flattens form state into template variables, renders the prompt, routes
// the request to the selected provider, and normalizes every failure mode
// into an Outcome. Nothing escapes this boundary as a panic or raw error:
// exactly one of Outcome.Content and Outcome.Error is populated.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MoAI-tw/introscript/internal/profile"
	"github.com/MoAI-tw/introscript/internal/prompt"
	"github.com/MoAI-tw/introscript/internal/providers"
)

// Outcome is one finished generation attempt, successful or not. It is the
// unit that flows through the result cache into the history store.
type Outcome struct {
	Content string `json:"content"`
	Prompt  string `json:"prompt"`

	Provider string `json:"provider"`
	Model    string `json:"model"`

	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	EstimatedCost    float64 `json:"estimatedCost"`

	ProjectID    string `json:"projectId,omitempty"`
	ProjectTitle string `json:"projectTitle,omitempty"`

	Error string `json:"error,omitempty"`
}

// Failed reports whether the attempt produced an error instead of content.
func (o *Outcome) Failed() bool {
	return o.Error != ""
}

// Options selects the provider and model for one generation call.
type Options struct {
	Provider string
	APIKey   string
	Model    string

	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	// Project labeling carried through to the history record.
	ProjectID    string
	ProjectTitle string
}

// ClientFactory builds a provider client for one call. Swapped out in tests.
type ClientFactory func(p providers.Provider, opts Options) providers.Client

// DefaultClientFactory constructs the real adapters.
func DefaultClientFactory(p providers.Provider, opts Options) providers.Client {
	switch p {
	case providers.Gemini:
		return providers.NewGeminiClient(providers.GeminiConfig{
			APIKey:  opts.APIKey,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		})
	default:
		return providers.NewOpenAIClient(providers.OpenAIConfig{
			APIKey:  opts.APIKey,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		})
	}
}

// Facade routes generation requests to provider adapters.
type Facade struct {
	factory ClientFactory
	logger  *slog.Logger
}

// NewFacade creates a facade using the real provider adapters.
func NewFacade(logger *slog.Logger) *Facade {
	return NewFacadeWithFactory(DefaultClientFactory, logger)
}

// NewFacadeWithFactory creates a facade with a custom client factory.
func NewFacadeWithFactory(factory ClientFactory, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{factory: factory, logger: logger}
}

// Generate performs exactly one generation attempt. Configuration errors
// (unsupported provider, missing API key) are detected before any network
// call; transport and provider errors are normalized by the adapters. The
// returned Outcome is always non-nil.
func (f *Facade) Generate(ctx context.Context, form *profile.FormData, opts Options) *Outcome {
	outcome := &Outcome{
		Provider:     opts.Provider,
		Model:        opts.Model,
		ProjectID:    opts.ProjectID,
		ProjectTitle: opts.ProjectTitle,
	}

	p, err := providers.ParseProvider(opts.Provider)
	if err != nil {
		outcome.Error = fmt.Sprintf("unsupported provider: %s", opts.Provider)
		f.logger.Warn("generation rejected", "reason", "unsupported provider", "provider", opts.Provider)
		return outcome
	}
	if opts.APIKey == "" {
		outcome.Error = fmt.Sprintf("missing API key for provider %s", p)
		f.logger.Warn("generation rejected", "reason", "missing API key", "provider", p)
		return outcome
	}

	body, systemPrompt := promptPolicy(form)
	rendered := prompt.Render(body, FlattenVars(form))
	outcome.Prompt = rendered

	client := f.factory(p, opts)
	result, callErr := client.Generate(ctx, &providers.Request{
		SystemPrompt: systemPrompt,
		Prompt:       rendered,
		Model:        opts.Model,
		Temperature:  opts.Temperature,
		MaxTokens:    opts.MaxTokens,
	})
	if result == nil {
		// Adapters contract to return a non-nil Result; keep the no-panic
		// boundary even against a client that breaks it.
		result = &providers.Result{
			Provider:     p.String(),
			ModelUsed:    opts.Model,
			ErrorType:    "nil_result",
			ErrorMessage: "provider returned no result",
		}
	}

	outcome.Model = result.ModelUsed
	outcome.PromptTokens = result.PromptTokens
	outcome.CompletionTokens = result.CompletionTokens
	outcome.TotalTokens = result.TotalTokens
	outcome.EstimatedCost = result.CostUSD

	if callErr != nil || !result.Success {
		msg := result.ErrorMessage
		if msg == "" && callErr != nil {
			msg = callErr.Error()
		}
		outcome.Error = msg
		f.logger.Error("generation failed",
			"provider", p,
			"model", result.ModelUsed,
			"error_type", result.ErrorType,
			"error", msg)
		return outcome
	}

	outcome.Content = result.Content
	f.logger.Info("generation succeeded",
		"provider", p,
		"model", result.ModelUsed,
		"total_tokens", result.TotalTokens,
		"cost_usd", result.CostUSD,
		"duration", result.ExecutionTime)
	return outcome
}

// promptPolicy picks the template body and the system prompt override from
// form state. The custom system prompt applies only when custom prompting is
// switched on, the active template resolves, and its system prompt is
// non-empty; otherwise the adapter default stands.
func promptPolicy(form *profile.FormData) (body, systemPrompt string) {
	gen := form.Generation

	body = prompt.DefaultTemplate().Content
	if gen.UseCustomPrompt && gen.PromptTemplate != "" {
		body = gen.PromptTemplate
	}

	if gen.UseCustomPrompt {
		if active, ok := gen.PromptTemplates[gen.ActivePromptID]; ok && active.SystemPrompt != "" {
			systemPrompt = active.SystemPrompt
		}
	}
	return body, systemPrompt
}
