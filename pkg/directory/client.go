// Package directory looks up users and saved campaigns in the platform API.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alantheprice/outreach/pkg/utils"
)

// User is the subset of the user record the service needs.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Timezone string `json:"timezone"`
}

// Template is one saved campaign step; Content is HTML.
type Template struct {
	Subject string `json:"subject,omitempty"`
	Content string `json:"content"`
}

// Campaign is a saved campaign keyed by step.
type Campaign struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Templates map[string]Template `json:"templates"`
}

// PlainText flattens every template to text and joins them with single
// spaces. Templates are taken in key order, numeric keys first.
func (c *Campaign) PlainText() string {
	keys := make([]string, 0, len(c.Templates))
	for k := range c.Templates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, FlattenHTML(c.Templates[k].Content))
	}
	return strings.Join(parts, " ")
}

// Client calls the platform API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// User fetches a user by id.
func (c *Client) User(ctx context.Context, userID string) (*User, error) {
	var u User
	if err := c.get(ctx, "users", userID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FetchCampaign fetches a saved campaign by id.
func (c *Client) FetchCampaign(ctx context.Context, campaignID string) (*Campaign, error) {
	var camp Campaign
	if err := c.get(ctx, "campaigns", campaignID, &camp); err != nil {
		return nil, err
	}
	return &camp, nil
}

func (c *Client) get(ctx context.Context, collection, id string, out interface{}) error {
	if c.baseURL == "" {
		return utils.NewConfigError("directory_url", fmt.Errorf("directory endpoint is not configured"))
	}
	if id == "" {
		return utils.NewValidationError(collection, "id is required")
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, collection, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return utils.NewNetworkError("fetch "+collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return utils.NewNetworkError("fetch "+collection,
			fmt.Errorf("directory returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))).
			WithResource(id)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return utils.NewNetworkError("decode "+collection, err)
	}
	return nil
}
