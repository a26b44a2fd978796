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

// OllamaClient calls a local Ollama endpoint.
type OllamaClient struct {
	Client  *http.Client
	BaseURL string
}

// NewOllamaClient builds a client for baseURL (default http://localhost:11434).
func NewOllamaClient(client *http.Client, baseURL string) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaClient{Client: client, BaseURL: strings.TrimRight(baseURL, "/")}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Generate posts a non-streaming generate request.
func (c *OllamaClient) Generate(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: req.Temperature},
	})
	if err != nil {
		return Result{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Result{}, fmt.Errorf("ollama returned HTTP %d", resp.StatusCode)
	}

	var body ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("parsing ollama response: %w", err)
	}

	return Result{Text: body.Response, Provider: "ollama", Model: req.Model}, nil
}
