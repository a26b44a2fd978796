// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenRouterClient calls the OpenRouter chat-completions endpoint. It is
// the cloud fallback provider; the API key is mandatory. A missing key is
// a configuration error, not a retry condition.
type OpenRouterClient struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	Model   string
}

// NewOpenRouterClient builds a client for baseURL
// (default https://openrouter.ai/api/v1).
func NewOpenRouterClient(client *http.Client, baseURL, apiKey, model string) *OpenRouterClient {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &OpenRouterClient{
		Client:  client,
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate posts a single-turn chat completion. The configured model wins
// over the request's model: cloud routing uses its own identifier space.
func (c *OpenRouterClient) Generate(ctx context.Context, req Request) (Result, error) {
	if c.APIKey == "" {
		return Result{}, fmt.Errorf("openrouter API key is required when cloud fallback is enabled")
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("openrouter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Result{}, fmt.Errorf("openrouter returned HTTP %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("parsing openrouter response: %w", err)
	}
	if len(body.Choices) == 0 {
		return Result{}, fmt.Errorf("openrouter returned no choices")
	}

	return Result{Text: body.Choices[0].Message.Content, Provider: "openrouter", Model: c.Model}, nil
}
