package service

import (
	"context"
	"fmt"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/go-resty/resty/v2"
)

// OpenAIClient wraps the OpenAI-compatible Chat Completion API used for
// study-bundle generation, study tools, and tutor chat.
type OpenAIClient struct {
	client      *resty.Client
	model       string
	apiKey      string
	endpoint    string
	temperature float32
}

// NewOpenAIClient creates a new OpenAI chat client.
// Parameters:
//   - cfg: provider configuration including model, API key, and base URL.
//
// Returns:
//   - *OpenAIClient: initialized client wrapper.
func NewOpenAIClient(cfg *config.LLMConfig) *OpenAIClient {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	client.SetTimeout(cfg.Timeout())

	// Default to OpenAI compatible endpoint if not specified
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	endpoint := baseURL + "/chat/completions"

	return &OpenAIClient{
		client:      client,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
	}
}

// Enabled reports whether the client has credentials to make calls.
// Parameters: none.
// Returns:
//   - bool: true when an API key is configured.
func (c *OpenAIClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// GetModel returns the model name being used.
// Parameters: none.
// Returns:
//   - string: model identifier.
func (c *OpenAIClient) GetModel() string {
	return c.model
}

// OpenAI-compatible Chat Completion API request/response structures
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
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

// Complete sends a system/user message pair and returns the assistant reply.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - systemPrompt: system role instruction.
//   - userPrompt: user message content.
//   - maxTokens: completion token cap for this call.
//
// Returns:
//   - string: assistant reply text.
//   - error: non-nil if the API request fails.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	req := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: userPrompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
	}

	var resp openAIResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(c.endpoint)

	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	// Check HTTP status code
	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		// Try to get error message from response body
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else {
			// Include response body for debugging
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return "", fmt.Errorf("OpenAI API returned error: %s", errorMsg)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		// Include more context in error message
		errorMsg := fmt.Sprintf("no choices in response (status: %d)", httpResp.StatusCode())
		if len(httpResp.Body()) > 0 {
			errorMsg += fmt.Sprintf(", response body: %s", string(httpResp.Body()))
		}
		return "", fmt.Errorf("no response from OpenAI API: %s", errorMsg)
	}

	return resp.Choices[0].Message.Content, nil
}
