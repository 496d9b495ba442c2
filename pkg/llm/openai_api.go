package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alantheprice/outreach/pkg/utils"
)

// DefaultOpenAIURL is the base URL used when none is configured.
const DefaultOpenAIURL = "https://api.openai.com/v1"

// OpenAIClient calls an OpenAI-compatible /chat/completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	backoff    *utils.RateLimitBackoff
	logger     *utils.Logger
}

// NewOpenAIClient creates a client for baseURL (DefaultOpenAIURL when empty).
func NewOpenAIClient(baseURL, apiKey string, logger *utils.Logger) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &OpenAIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		backoff:    utils.NewRateLimitBackoff(),
		logger:     logger,
	}
}

// Backoff exposes the rate-limit policy so callers can tune it.
func (c *OpenAIClient) Backoff() *utils.RateLimitBackoff {
	return c.backoff
}

// Generate implements Generator. A 429 is retried with backoff; every other
// failure is returned to the caller.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	payload := OpenAIRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      false,
	}
	if opts.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	for attempt := 0; ; attempt++ {
		content, resp, err := c.do(ctx, payload, opts)
		if err == nil {
			return content, nil
		}
		if IsTimeout(err) {
			return "", utils.NewGenerationTimeoutError(opts.Model, err)
		}
		if !c.backoff.IsRateLimitError(nil, resp) || !c.backoff.ShouldRetry(attempt) {
			return "", err
		}

		delay := c.backoff.CalculateBackoffDelay(resp, attempt)
		c.logger.Logf("Rate limited by provider, retrying in %s (attempt %d/%d)", delay, attempt+1, c.backoff.MaxRetries)
		if werr := c.backoff.Wait(ctx, delay); werr != nil {
			return "", utils.NewGenerationTimeoutError(opts.Model, werr)
		}
	}
}

func (c *OpenAIClient) do(ctx context.Context, payload OpenAIRequest, opts Options) (string, *http.Response, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return "", nil, err
		}
		return "", nil, utils.NewNetworkError("chat completion", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if IsTimeout(err) {
			return "", resp, err
		}
		return "", resp, utils.NewNetworkError("read chat completion", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", resp, utils.NewNetworkError("chat completion",
			fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var out OpenAIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", resp, utils.NewGenerationOutputError("decode chat completion", err)
	}
	if len(out.Choices) == 0 {
		return "", resp, utils.NewGenerationOutputError("decode chat completion", errors.New("no choices in response"))
	}

	c.logger.Logf("chat completion: model=%s prompt_tokens=%d completion_tokens=%d",
		opts.Model, out.Usage.PromptTokens, out.Usage.CompletionTokens)
	return out.Choices[0].Message.Content, resp, nil
}
