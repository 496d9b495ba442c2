package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"github.com/alantheprice/outreach/pkg/utils"
)

// OllamaClient generates through a local or remote ollama server.
type OllamaClient struct {
	client *ollama.Client
}

// NewOllamaClient connects to host, or to OLLAMA_HOST when host is empty.
func NewOllamaClient(host string) (*OllamaClient, error) {
	if host == "" {
		client, err := ollama.ClientFromEnvironment()
		if err != nil {
			return nil, utils.NewConfigError("ollama host", err)
		}
		return &OllamaClient{client: client}, nil
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, utils.NewConfigError("ollama host", err)
	}
	return &OllamaClient{client: ollama.NewClient(base, http.DefaultClient)}, nil
}

// Generate implements Generator.
func (c *OllamaClient) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	chat := make([]ollama.Message, 0, len(messages))
	for _, m := range messages {
		chat = append(chat, ollama.Message{Role: m.Role, Content: m.Content})
	}

	stream := false
	req := &ollama.ChatRequest{
		Model:    opts.Model,
		Messages: chat,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": opts.Temperature,
		},
	}
	if opts.MaxTokens > 0 {
		req.Options["num_predict"] = opts.MaxTokens
	}
	if opts.JSONMode {
		req.Format = json.RawMessage(`"json"`)
	}

	var sb strings.Builder
	respFunc := func(resp ollama.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	}

	if err := c.client.Chat(ctx, req, respFunc); err != nil {
		if IsTimeout(err) || ctx.Err() != nil {
			return "", utils.NewGenerationTimeoutError(opts.Model, err)
		}
		return "", utils.NewNetworkError("ollama chat", fmt.Errorf("model %s: %w", opts.Model, err))
	}
	return sb.String(), nil
}
