package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const MockName = "mock"

// MockClient is a test double for the Client interface. It counts requests so
// tests can assert dispatch happened at most once.
type MockClient struct {
	// ResponseText is returned as the generated content. When empty a
	// canned response derived from the prompt is used.
	ResponseText string

	// ShouldFail makes every call return a normalized failure.
	ShouldFail bool

	// Latency is slept before responding, to exercise timeout paths.
	Latency time.Duration

	requestCount atomic.Int64
}

// NewMockClient creates a mock client with default behavior.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockName
}

// RequestCount returns how many Generate calls were made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset clears the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}

// Generate returns a canned result without any network traffic.
func (c *MockClient) Generate(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	c.requestCount.Add(1)

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	result := &Result{
		RequestID: requestID,
		Provider:  MockName,
		ModelUsed: "mock-model",
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			result.Success = false
			result.ErrorType = "canceled"
			result.ErrorMessage = ctx.Err().Error()
			result.ExecutionTime = time.Since(start)
			return result, ctx.Err()
		}
	}

	if c.ShouldFail {
		result.Success = false
		result.ErrorType = "mock_failure"
		result.ErrorMessage = "mock client configured to fail"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock client configured to fail")
	}

	content := c.ResponseText
	if content == "" {
		content = fmt.Sprintf("[mock response to %d-char prompt]", len(req.Prompt))
	}

	result.Success = true
	result.Content = content
	result.PromptTokens = EstimateTokens(req.Prompt)
	result.CompletionTokens = EstimateTokens(content)
	result.TotalTokens = result.PromptTokens + result.CompletionTokens
	result.ExecutionTime = time.Since(start)

	return result, nil
}

// Verify interface
var _ Client = (*MockClient)(nil)
