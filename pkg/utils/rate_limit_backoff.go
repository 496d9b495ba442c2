package utils

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitBackoff handles rate limit detection and backoff calculations for
// the model provider. It only ever applies to HTTP 429 style responses; content
// retries in the validation pipeline never sleep.
type RateLimitBackoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	BufferTime time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewRateLimitBackoff creates a new rate limit backoff handler with sensible defaults
func NewRateLimitBackoff() *RateLimitBackoff {
	return &RateLimitBackoff{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   60 * time.Second,
		BufferTime: 2 * time.Second,
		sleep:      sleepContext,
	}
}

// SetSleepFunc overrides how waits are performed (tests use a no-op).
func (rlb *RateLimitBackoff) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	if fn == nil {
		rlb.sleep = sleepContext
		return
	}
	rlb.sleep = fn
}

func containsRateLimitPhrases(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "rate limit") ||
		strings.Contains(s, "requests per minute") ||
		strings.Contains(s, "rate exceeded") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "insufficient_quota") ||
		(strings.Contains(s, "quota") && strings.Contains(s, "exceeded")) ||
		strings.Contains(s, "current quota")
}

// IsRateLimitError checks if an error or HTTP response indicates a rate limit
func (rlb *RateLimitBackoff) IsRateLimitError(err error, resp *http.Response) bool {
	// HTTP 429 is generally a reliable indicator
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return true
	}

	if err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "status 429") || strings.Contains(errStr, "http 429") {
			return true
		}
		return containsRateLimitPhrases(errStr)
	}

	return false
}

// CalculateBackoffDelay calculates how long to wait before retrying
func (rlb *RateLimitBackoff) CalculateBackoffDelay(resp *http.Response, attempt int) time.Duration {
	// First try to use rate limit headers if available
	if resp != nil {
		if delay := rlb.parseRateLimitHeaders(resp); delay > 0 {
			return delay
		}
	}

	// Fallback to exponential backoff
	return rlb.exponentialBackoff(attempt)
}

// parseRateLimitHeaders reads Retry-After (seconds) or OpenAI's
// x-ratelimit-reset-requests duration string ("1s", "6m0s").
func (rlb *RateLimitBackoff) parseRateLimitHeaders(resp *http.Response) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			return rlb.capDelay(time.Duration(seconds)*time.Second + rlb.BufferTime)
		}
	}

	if reset := resp.Header.Get("X-Ratelimit-Reset-Requests"); reset != "" {
		if d, err := time.ParseDuration(reset); err == nil && d > 0 {
			return rlb.capDelay(d + rlb.BufferTime)
		}
	}

	return 0 // No parseable headers found
}

// exponentialBackoff calculates exponential backoff delay
func (rlb *RateLimitBackoff) exponentialBackoff(attempt int) time.Duration {
	delay := rlb.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	return rlb.capDelay(delay)
}

// capDelay ensures delay doesn't exceed maximum
func (rlb *RateLimitBackoff) capDelay(delay time.Duration) time.Duration {
	if delay > rlb.MaxDelay {
		return rlb.MaxDelay
	}
	if delay < 0 {
		return rlb.BaseDelay
	}
	return delay
}

// ShouldRetry determines if we should retry based on attempt count
func (rlb *RateLimitBackoff) ShouldRetry(attempt int) bool {
	return attempt < rlb.MaxRetries
}

// Wait blocks for d or until ctx is done.
func (rlb *RateLimitBackoff) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return rlb.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
