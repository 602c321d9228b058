package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	GeminiName         = "gemini"
	geminiDefaultModel = "gemini-2.0-flash"
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"

	defaultGeminiSystemPrompt = "You are a professional speech coach. " +
		"Write natural, fluent spoken self-introduction scripts that sound " +
		"like a real person talking, matched to the requested language, " +
		"duration, and tone."
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey     string
	Model      string        // "gemini-2.0-flash" (default)
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// GeminiClient implements Client against the Gemini generateContent API.
// The REST surface is small enough that a hand-rolled client keeps the
// dependency footprint down.
type GeminiClient struct {
	apiKey       string
	defaultModel string
	baseURL      string
	httpClient   *http.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &GeminiClient{
		apiKey:       cfg.APIKey,
		defaultModel: cfg.Model,
		baseURL:      cfg.BaseURL,
		httpClient:   httpClient,
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// DefaultSystemPrompt returns the adapter's system prompt policy.
func (c *GeminiClient) DefaultSystemPrompt() string {
	return defaultGeminiSystemPrompt
}

// Wire types for the generateContent endpoint.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends one generateContent request.
func (c *GeminiClient) Generate(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultGeminiSystemPrompt
	}

	result := &Result{
		RequestID: requestID,
		Provider:  GeminiName,
		ModelUsed: model,
	}

	fail := func(errType, msg string, err error) (*Result, error) {
		result.Success = false
		result.ErrorType = errType
		result.ErrorMessage = msg
		result.ExecutionTime = time.Since(start)
		return result, err
	}

	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		body.GenerationConfig = &geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fail("marshal_error", err.Error(), fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fail("request_error", err.Error(), fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fail("http_error", err.Error(), fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail("read_error", err.Error(), fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiErrorResponse
		msg := string(respBody)
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return fail("api_error",
			fmt.Sprintf("status %d: %s", resp.StatusCode, msg),
			fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, msg))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return fail("parse_error", err.Error(), fmt.Errorf("failed to parse response: %w", err))
	}

	if genResp.PromptFeedback.BlockReason != "" {
		msg := fmt.Sprintf("prompt blocked: %s", genResp.PromptFeedback.BlockReason)
		return fail("blocked", msg, fmt.Errorf("gemini: %s", msg))
	}
	if len(genResp.Candidates) == 0 {
		return fail("empty_response", "no candidates in response", errNoChoices)
	}

	candidate := genResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		msg := "candidate blocked by safety filter"
		return fail("blocked", msg, fmt.Errorf("gemini: %s", msg))
	}

	var text string
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}

	result.Success = true
	result.Content = text
	result.PromptTokens = genResp.UsageMetadata.PromptTokenCount
	result.CompletionTokens = genResp.UsageMetadata.CandidatesTokenCount
	result.TotalTokens = genResp.UsageMetadata.TotalTokenCount
	if result.TotalTokens == 0 {
		result.PromptTokens = EstimateTokens(req.Prompt)
		result.CompletionTokens = EstimateTokens(text)
		result.TotalTokens = result.PromptTokens + result.CompletionTokens
	}
	result.CostUSD = EstimateCost(model, result.PromptTokens, result.CompletionTokens)
	result.ExecutionTime = time.Since(start)

	return result, nil
}

// Verify interface
var _ Client = (*GeminiClient)(nil)
