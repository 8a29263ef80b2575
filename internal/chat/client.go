package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"go-skin-inspector/internal/config"
	"go-skin-inspector/internal/logger"
)

// Completer produces the assistant reply to a conversation
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// codeInsufficientCredits is the OpenRouter error code that triggers the fallback model
const codeInsufficientCredits = "402"

// APIError is an error reported by the completion API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// OpenRouterClient talks to an OpenAI compatible chat completions endpoint
type OpenRouterClient struct {
	httpClient    *http.Client
	url           string
	apiKey        string
	model         string
	fallbackModel string
	maxTokens     int
	referer       string
}

// NewOpenRouterClient creates a client from the chat settings of cfg
func NewOpenRouterClient(cfg *config.Config) *OpenRouterClient {
	return &OpenRouterClient{
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		url:           cfg.OpenRouterURL,
		apiKey:        cfg.OpenRouterAPIKey,
		model:         cfg.ChatModel,
		fallbackModel: cfg.ChatFallbackModel,
		maxTokens:     cfg.ChatMaxTokens,
		referer:       cfg.ChatReferer,
	}
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation to the primary model and retries once with
// the fallback model when the account is out of credits.
func (c *OpenRouterClient) Complete(ctx context.Context, messages []Message) (string, error) {
	reply, err := c.complete(ctx, c.model, messages)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == codeInsufficientCredits && c.fallbackModel != "" {
		logger.WithFields(logrus.Fields{
			"model":    c.model,
			"fallback": c.fallbackModel,
		}).Warn("Insufficient credits, retrying with fallback model")
		return c.complete(ctx, c.fallbackModel, messages)
	}
	return reply, err
}

func (c *OpenRouterClient) complete(ctx context.Context, model string, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("invalid completion URL: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"model":    model,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Completion API responded")

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &APIError{StatusCode: resp.StatusCode, Code: fmt.Sprint(resp.StatusCode), Message: string(raw)}
		}
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if parsed.Error != nil {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Code:       strings.Trim(string(parsed.Error.Code), `"`),
			Message:    parsed.Error.Message,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Code: fmt.Sprint(resp.StatusCode), Message: http.StatusText(resp.StatusCode)}
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
