package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dataanalyst/internal/config"
	"dataanalyst/internal/llm"
	"dataanalyst/internal/port"
)

const (
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	providerName = "gemini"
)

// Client implements port.TextGenerator using Google's Gemini API.
type Client struct {
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a Gemini text generator.
func NewClient(cfg *config.GeminiConfig) *Client {
	return newClient(cfg, cfg.Endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.GeminiConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.GeminiConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Client{
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Model returns the model version this client calls.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	parts := []map[string]interface{}{
		{"text": input.Prompt},
	}
	if input.Image != nil {
		parts = append(parts, map[string]interface{}{
			"inline_data": map[string]interface{}{
				"mime_type": input.Image.MimeType,
				"data":      base64.StdEncoding.EncodeToString(input.Image.Data),
			},
		})
	}

	genConfig := map[string]interface{}{
		"temperature": input.Config.Temperature,
	}
	if input.Config.TopP > 0 {
		genConfig["topP"] = input.Config.TopP
	}
	if input.Config.TopK > 0 {
		genConfig["topK"] = input.Config.TopK
	}
	if input.Config.MaxOutputTokens > 0 {
		genConfig["maxOutputTokens"] = input.Config.MaxOutputTokens
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": parts,
			},
		},
		"generationConfig": genConfig,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", input.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr := &llm.APIError{Provider: providerName, StatusCode: resp.StatusCode, Body: llm.Truncate(string(respBody), 500)}
		return nil, llm.NewRateLimitError(providerName, apiErr, llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &llm.APIError{Provider: providerName, StatusCode: resp.StatusCode, Body: llm.Truncate(string(respBody), 500)}
	}

	return parseResponse(respBody, c.model)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	ModelVersion string `json:"modelVersion"`
}

func parseResponse(body []byte, model string) (*port.GenerateOutput, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}

	// The SDKs expose the concatenation of all text parts as the answer.
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	used := model
	if resp.ModelVersion != "" {
		used = resp.ModelVersion
	}

	return &port.GenerateOutput{
		Text:         text.String(),
		ModelUsed:    used,
		FinishReason: resp.Candidates[0].FinishReason,
	}, nil
}
