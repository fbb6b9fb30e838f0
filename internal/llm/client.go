// Package llm provides the chat-completion gateway the agent talks to.
// The concrete client speaks the OpenAI-compatible API exposed by local
// model servers (LM Studio, Ollama's compat endpoint, vLLM).
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

	"cobalt/internal/logging"
)

// Role identifies the author of a chat message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in the conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response carries the completion plus request metadata.
type Response struct {
	Content          string
	Model            string
	LatencyMs        int64
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Gateway is the opaque completion capability the orchestrator depends on.
type Gateway interface {
	Generate(ctx context.Context, messages []Message, temperature float64, maxTokens int) (*Response, error)
}

// Client implements Gateway against an OpenAI-compatible endpoint.
type Client struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// ClientConfig holds configuration for the HTTP client.
type ClientConfig struct {
	Endpoint string // base URL, e.g. http://localhost:1234
	Model    string
	Timeout  time.Duration
}

// NewClient creates a client for an OpenAI-compatible endpoint.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// chatRequest is the wire request structure.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// chatResponse is the wire response structure.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Generate sends the conversation and returns the completion with metadata.
func (c *Client) Generate(ctx context.Context, messages []Message, temperature float64, maxTokens int) (*Response, error) {
	start := time.Now()

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.endpoint + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.API("POST %s model=%s messages=%d", url, c.model, len(messages))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("request failed: %v", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.APIError("endpoint returned %d: %s", resp.StatusCode, truncate(string(body), 200))
		return nil, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("endpoint error: %s", parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("endpoint returned no choices")
	}

	latency := time.Since(start).Milliseconds()
	logging.API("completion received in %dms (%d tokens)", latency, parsed.Usage.TotalTokens)

	return &Response{
		Content:          parsed.Choices[0].Message.Content,
		Model:            parsed.Model,
		LatencyMs:        latency,
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
		TotalTokens:      parsed.Usage.TotalTokens,
	}, nil
}

// CheckConnection verifies the endpoint is reachable.
func (c *Client) CheckConnection(ctx context.Context) error {
	url := c.endpoint + "/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
