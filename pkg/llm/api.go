// Package llm wraps the chat-completion providers used to generate campaign
// content. Every provider returns the raw assistant text; callers decode it.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/alantheprice/outreach/pkg/apikeys"
	"github.com/alantheprice/outreach/pkg/config"
	"github.com/alantheprice/outreach/pkg/utils"
)

// Generator produces assistant text for a message history.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, messages []Message, opts Options) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	return f(ctx, messages, opts)
}

// NewGenerator builds the provider selected in cfg.
func NewGenerator(cfg *config.Config, logger *utils.Logger) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		key, err := apikeys.GetAPIKey(config.ProviderOpenAI)
		if err != nil {
			return nil, utils.NewConfigError("openai api key", err)
		}
		return NewOpenAIClient(cfg.ProviderURL, key, logger), nil
	case config.ProviderOllama:
		return NewOllamaClient(cfg.ProviderURL)
	default:
		return nil, utils.NewConfigError("provider", fmt.Errorf("unknown provider %q", cfg.Provider))
	}
}

// DefaultOptions returns the generation options every pipeline call uses.
func DefaultOptions(cfg *config.Config) Options {
	return Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout(),
		JSONMode:    true,
	}
}

// IsTimeout reports whether err is a timeout-class generation failure.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if utils.HasCode(err, utils.CodeGenerationTimeout) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// DecodeJSON unmarshals model output into v. Markdown code fences around the
// object are tolerated because some providers add them even in JSON mode.
func DecodeJSON(raw string, v any) error {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return utils.NewGenerationOutputError("decode model output", errors.New("empty response"))
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return utils.NewGenerationOutputError("decode model output", err)
	}
	return nil
}

// withTimeout applies opts.Timeout to ctx when set.
func withTimeout(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return context.WithCancel(ctx)
}
