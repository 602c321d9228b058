// Package providers contains the text-generation provider adapters.
//
// Adapters are stateless and interchangeable: each one turns a Request into
// one outbound API call and normalizes the provider's success and error
// shapes into a Result. Failures are reported through Result.Success and
// Result.ErrorMessage alongside the returned error; a Result is always
// non-nil so callers can record partial timing/usage data for failed calls.
package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider identifies a text-generation backend.
type Provider string

const (
	// OpenAI is the OpenAI chat completions backend.
	OpenAI Provider = "openai"

	// Gemini is the Google Gemini generateContent backend.
	Gemini Provider = "gemini"
)

// ErrUnsupportedProvider is returned for provider values no adapter exists
// for (e.g. deserialized from old storage).
var ErrUnsupportedProvider = errors.New("unsupported provider")

// errNoChoices is returned when a provider responds 200 with no candidates.
var errNoChoices = errors.New("no choices in response")

// ParseProvider validates a provider discriminator string.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case OpenAI:
		return OpenAI, nil
	case Gemini:
		return Gemini, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// String returns the wire discriminator.
func (p Provider) String() string {
	return string(p)
}

// Client is the single-method strategy interface every adapter implements.
type Client interface {
	// Generate sends one generation request.
	Generate(ctx context.Context, req *Request) (*Result, error)

	// Name returns the client identifier (e.g. "openai").
	Name() string
}

// Request is a normalized generation request.
type Request struct {
	// SystemPrompt steers the model; each adapter has its own default when
	// empty.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Prompt is the fully rendered user prompt.
	Prompt string `json:"prompt"`

	// Model selection (uses the adapter default if empty).
	Model string `json:"model,omitempty"`

	// Generation parameters.
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Timeout     time.Duration `json:"-"`

	// Request tracking.
	RequestID string `json:"-"`
}

// Result is the complete normalized response from a generation call.
type Result struct {
	// Response content.
	Content string `json:"content"`

	// Token counts. Zero when the provider returned no usage data; callers
	// fall back to estimation.
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Cost and timing.
	CostUSD       float64       `json:"cost_usd"`
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info.
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking.
	RequestID string `json:"request_id"`

	// Success/error.
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
