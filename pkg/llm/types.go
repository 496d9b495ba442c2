package llm

import "time"

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options controls a single generation call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	JSONMode    bool // request strict JSON output
}

// TokenUsage represents token usage from LLM responses
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// OpenAIRequest represents a request to OpenAI-compatible APIs
type OpenAIRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream"`
}

// OpenAIResponse represents a non-streaming chat completion
type OpenAIResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}
