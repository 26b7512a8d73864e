package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "meta-llama/llama-3.1-8b-instruct"
)

// Client calls OpenRouter's OpenAI-compatible chat completions endpoint
type Client struct {
	apiKey   string
	getModel func() string // Dynamic getter so the model can change at runtime
	BaseURL  string
	Referer  string
	client   *http.Client
}

// NewClient creates a client for a fixed model
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return NewClientWithGetter(apiKey, func() string { return model })
}

// NewClientWithGetter creates a client whose model is read on every call
func NewClientWithGetter(apiKey string, getModel func() string) *Client {
	return &Client{
		apiKey:   apiKey,
		getModel: getModel,
		BaseURL:  DefaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Generate returns the model's reply to prompt
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OPENROUTER_API_KEY is not set")
	}
	model := c.getModel()
	if model == "" {
		model = DefaultModel
	}

	payload := chatRequest{Model: model, Temperature: 0.7, MaxTokens: 120}
	if system != "" {
		payload.Messages = append(payload.Messages, message{Role: "system", Content: system})
	}
	payload.Messages = append(payload.Messages, message{Role: "user", Content: prompt})

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.Referer != "" {
		req.Header.Set("HTTP-Referer", c.Referer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("openrouter API error (%d): %s", result.Error.Code, result.Error.Message)
	}
	for _, choice := range result.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("no completion returned")
}
