// Package scoring talks to the content-scoring service and turns its answer,
// plus local placeholder and spam checks, into a validation verdict.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alantheprice/outreach/pkg/utils"
)

// Request is the body sent to the scoring service.
type Request struct {
	Content       string `json:"content"`
	Subject       string `json:"subject"`
	IsFollowUp    bool   `json:"isFollowUp"`
	IsSendAsReply bool   `json:"isSendAsReply"`
	OutreachType  string `json:"outreachType"`
}

// TotalScore is the overall score block of a scoring response.
type TotalScore struct {
	Num float64 `json:"num"`
}

// Highlights lists the problems the scoring service found.
type Highlights struct {
	SpamWords         []string `json:"spamWords"`
	InvalidCustomVars []string `json:"invalidCustomVars"`
}

// Result is the scoring service response.
type Result struct {
	TotalScore TotalScore `json:"totalScore"`
	Highlights Highlights `json:"highlights"`
}

// Scorer scores one rendered step for a team.
type Scorer interface {
	Score(ctx context.Context, req Request, teamID string) (*Result, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, req Request, teamID string) (*Result, error)

func (f ScorerFunc) Score(ctx context.Context, req Request, teamID string) (*Result, error) {
	return f(ctx, req, teamID)
}

// HTTPScorer calls the scoring service over HTTP.
type HTTPScorer struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPScorer creates a scorer posting to endpoint.
func NewHTTPScorer(endpoint, apiKey string, timeout time.Duration) *HTTPScorer {
	return &HTTPScorer{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Score implements Scorer.
func (s *HTTPScorer) Score(ctx context.Context, req Request, teamID string) (*Result, error) {
	if s.endpoint == "" {
		return nil, utils.NewConfigError("scorer_url", fmt.Errorf("scoring endpoint is not configured"))
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, utils.NewConfigError("scorer_url", err)
	}
	q := u.Query()
	q.Set("teamId", teamID)
	u.RawQuery = q.Encode()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scoring request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, utils.NewNetworkError("score content", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, utils.NewNetworkError("score content",
			fmt.Errorf("scorer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, utils.NewNetworkError("decode scoring response", err)
	}
	return &result, nil
}
