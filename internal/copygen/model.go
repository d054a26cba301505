package copygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the DeepSeek chat-completion URL.
	DefaultEndpoint    = "https://api.deepseek.com/chat/completions"
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
	DefaultTimeout     = 20 * time.Second

	// maxResponseBytes bounds how much of an answer is read.
	maxResponseBytes = 1 << 20
)

// ModelConfig configures the chat-completion client.
type ModelConfig struct {
	APIKey      string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ModelClient asks a chat-completion endpoint for the three copy variants.
type ModelClient struct {
	cfg        ModelConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewModelClient validates cfg and creates a client. It returns ErrConfiguration when the API key is empty.
func NewModelClient(cfg ModelConfig, logger *zap.Logger) (*ModelClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrConfiguration
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &ModelClient{cfg: cfg, httpClient: newHTTPClient(cfg.Timeout), logger: logger}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Call sends prompt as the user turn and returns the decoded, still untyped JSON value from the answer.
// A nil client fails with ErrConfiguration.
func (c *ModelClient) Call(ctx context.Context, prompt string) (any, error) {
	if c == nil {
		return nil, ErrConfiguration
	}
	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ExtractJSON(content)
}

func (c *ModelClient) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(string(respBody), 200))
	}

	var envelope chatResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", fmt.Errorf("%w: decode envelope: %w", ErrMalformedResponse, err)
	}
	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no content in first choice", ErrMalformedResponse)
	}
	c.logger.Debug("model call completed", zap.String("model", c.cfg.Model), zap.Int("content_len", len(envelope.Choices[0].Message.Content)))
	return envelope.Choices[0].Message.Content, nil
}

// Greedy: from the first '{' to the last '}'.
var braceBlock = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON parses content as JSON, falling back to the outermost brace-delimited block inside surrounding prose.
func ExtractJSON(content string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err == nil {
		return v, nil
	}
	block := braceBlock.FindString(content)
	if block == "" {
		return nil, fmt.Errorf("%w: no JSON object in content", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return v, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
