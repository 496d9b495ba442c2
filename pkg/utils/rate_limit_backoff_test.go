package utils

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRateLimitErrorQuotaMessage(t *testing.T) {
	rlb := NewRateLimitBackoff()
	err := errors.New("OpenAI API error: You exceeded your current quota, please check your plan and billing details.")

	if !rlb.IsRateLimitError(err, nil) {
		t.Fatalf("expected quota message to be treated as rate limit")
	}
}

func TestRateLimitErrorStatus429Variants(t *testing.T) {
	rlb := NewRateLimitBackoff()
	cases := []string{
		"provider error (status 429): Too many requests",
		"status 429",
		"HTTP 429 rate limit",
	}
	for _, msg := range cases {
		if !rlb.IsRateLimitError(errors.New(msg), nil) {
			t.Fatalf("expected %q to be treated as rate limit", msg)
		}
	}
}

func TestRateLimitFromHTTPResponse(t *testing.T) {
	rlb := NewRateLimitBackoff()
	resp := &http.Response{StatusCode: 429}
	if !rlb.IsRateLimitError(nil, resp) {
		t.Fatalf("expected HTTP 429 response to be treated as rate limit")
	}
}

func TestNonRateLimitError(t *testing.T) {
	rlb := NewRateLimitBackoff()
	err := errors.New("upstream error 502")
	if rlb.IsRateLimitError(err, nil) {
		t.Fatalf("did not expect 502 to be treated as rate limit")
	}
}

func TestCalculateBackoffDelay_RetryAfterHeader(t *testing.T) {
	rlb := NewRateLimitBackoff()
	resp := &http.Response{StatusCode: 429, Header: http.Header{}}
	resp.Header.Set("Retry-After", "5")

	if got := rlb.CalculateBackoffDelay(resp, 0); got != 7*time.Second {
		t.Fatalf("expected 7s (5s + buffer), got %v", got)
	}
}

func TestCalculateBackoffDelay_OpenAIResetHeader(t *testing.T) {
	rlb := NewRateLimitBackoff()
	resp := &http.Response{StatusCode: 429, Header: http.Header{}}
	resp.Header.Set("x-ratelimit-reset-requests", "1s")

	if got := rlb.CalculateBackoffDelay(resp, 0); got != 3*time.Second {
		t.Fatalf("expected 3s (1s + buffer), got %v", got)
	}
}

func TestCalculateBackoffDelay_ExponentialIsCapped(t *testing.T) {
	rlb := NewRateLimitBackoff()
	if got := rlb.CalculateBackoffDelay(nil, 1); got != 4*time.Second {
		t.Fatalf("expected 4s, got %v", got)
	}
	if got := rlb.CalculateBackoffDelay(nil, 10); got != rlb.MaxDelay {
		t.Fatalf("expected cap %v, got %v", rlb.MaxDelay, got)
	}
}

func TestWait_RespectsContext(t *testing.T) {
	rlb := NewRateLimitBackoff()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rlb.Wait(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := rlb.Wait(ctx, 0); err != nil {
		t.Fatalf("zero wait should not error, got %v", err)
	}
}
