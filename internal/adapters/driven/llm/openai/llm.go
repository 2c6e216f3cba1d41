// Package openai provides an LLM service adapter for OpenAI-compatible
// chat-completion APIs.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 90 * time.Second

	// bodyExcerptLen bounds the raw body carried by protocol errors.
	bodyExcerptLen = 200
)

// Config holds configuration for the LLM service.
type Config struct {
	// APIKey is the bearer token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the completion model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the default request timeout, used when a call does
	// not supply its own (default: 90s).
	Timeout time.Duration

	// RequestsPerSecond enables a client-side token bucket when > 0.
	RequestsPerSecond float64
}

// LLMService sends chat-completion requests over HTTP. It classifies
// failures into the domain taxonomy and never retries.
type LLMService struct {
	client         *http.Client
	limiter        *rate.Limiter
	baseURL        string
	apiKey         string
	model          string
	defaultTimeout time.Duration
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the chat message wire format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new chat-completion client.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &LLMService{
		// Per-call deadlines come from the request context, so the
		// shared client carries no timeout of its own.
		client:         &http.Client{},
		limiter:        limiter,
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		defaultTimeout: cfg.Timeout,
	}, nil
}

// Complete sends one request and returns the first completion's text.
func (s *LLMService) Complete(
	ctx context.Context, messages []domain.Message, opts driven.CompletionOptions,
) (string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", &domain.TimeoutError{Op: "chat completion", Err: err}
		}
	}

	wireMessages := make([]chatCompletionMsg, len(messages))
	for i, msg := range messages {
		wireMessages[i] = chatCompletionMsg{Role: msg.Role, Content: msg.Content}
	}

	reqBody := chatCompletionRequest{
		Model:    s.model,
		Messages: wireMessages,
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &domain.TimeoutError{Op: "chat completion", Err: err}
		}
		return "", &domain.ProtocolError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", &domain.TimeoutError{Op: "chat completion", Err: err}
		}
		return "", &domain.ProtocolError{Status: resp.StatusCode, Body: err.Error()}
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &domain.ProtocolError{Status: resp.StatusCode, Body: excerpt(body)}
	}

	if chatResp.Error != nil {
		return "", &domain.APIError{Status: resp.StatusCode, Message: chatResp.Error.Message}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.ProtocolError{Status: resp.StatusCode, Body: excerpt(body)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &domain.ProtocolError{Status: resp.StatusCode, Body: "no choices in response"}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ModelName returns the model identifier sent with each request.
func (s *LLMService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// isTimeout reports whether err stems from a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// excerpt bounds a raw response body for inclusion in an error.
func excerpt(body []byte) string {
	if len(body) > bodyExcerptLen {
		return string(body[:bodyExcerptLen]) + "..."
	}
	return string(body)
}
