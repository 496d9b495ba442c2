package config

import (
	"fmt"
	"strings"

	"github.com/alantheprice/outreach/pkg/utils"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationResult contains the result of a configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) add(field, format string, args ...interface{}) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// CombinedError returns all errors as a single error
func (r *ValidationResult) CombinedError() error {
	if len(r.Errors) == 0 {
		return nil
	}
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = err.Error()
	}
	return utils.NewConfigError("config", fmt.Errorf("configuration validation failed:\n%s", strings.Join(messages, "\n")))
}

// Check validates every field and collects all problems.
func (c *Config) Check() *ValidationResult {
	result := &ValidationResult{}

	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		result.add("provider", "must be %q or %q, got %q", ProviderOpenAI, ProviderOllama, c.Provider)
	}
	if strings.TrimSpace(c.Model) == "" {
		result.add("model", "cannot be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		result.add("temperature", "must be between 0 and 2")
	}
	if c.MaxTokens < 1 {
		result.add("max_tokens", "cannot be less than 1")
	}
	if c.TimeoutSeconds < 1 {
		result.add("timeout_seconds", "cannot be less than 1")
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 100 {
		result.add("score_threshold", "must be between 0 and 100")
	}
	if c.RepairAttempts < 1 {
		result.add("repair_attempts", "cannot be less than 1")
	}
	if c.RegenerateAttempts < 1 {
		result.add("regenerate_attempts", "cannot be less than 1")
	}
	if c.Port < 1 || c.Port > 65535 {
		result.add("port", "must be between 1 and 65535")
	}

	switch c.Dispatch {
	case DispatchInProcess:
	case DispatchKafka:
		if len(c.KafkaBrokers) == 0 {
			result.add("kafka_brokers", "required when dispatch is %q", DispatchKafka)
		}
		if c.KafkaTopic == "" {
			result.add("kafka_topic", "cannot be empty")
		}
	default:
		result.add("dispatch", "must be %q or %q, got %q", DispatchInProcess, DispatchKafka, c.Dispatch)
	}

	if c.RedisAddr != "" && c.RedisChannel == "" {
		result.add("redis_channel", "required when redis_addr is set")
	}

	if c.Temperature > 1.5 {
		result.Warnings = append(result.Warnings, "High temperature (>1.5) may lead to unpredictable outputs")
	}
	if c.ScorerURL == "" {
		result.Warnings = append(result.Warnings, "scorer_url is not set; validation calls will fail")
	}
	return result
}

// Validate returns a configuration error listing every invalid field.
func (c *Config) Validate() error {
	return c.Check().CombinedError()
}
