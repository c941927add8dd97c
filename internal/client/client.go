// Package client provides a minimal client for the Kanka REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public Kanka API root.
const DefaultBaseURL = "https://api.kanka.io/1.0"

// ErrUnauthorized indicates the API rejected the token.
var ErrUnauthorized = errors.New("unauthorized: check your Kanka API token")

// ErrMissingToken indicates no API token was configured.
var ErrMissingToken = errors.New("missing Kanka API token")

// APIError is a non-2xx response from the Kanka API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kanka api error: %s - %s", e.Status, e.Body)
}

// Unwrap maps authentication failures to ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the Kanka API with a personal access token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client. An empty baseURL uses DefaultBaseURL; a zero timeout
// uses 30 seconds.
func New(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Campaign is one campaign visible to the token.
type Campaign struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// campaignsResponse is the envelope of GET /campaigns.
type campaignsResponse struct {
	Data []Campaign `json:"data"`
}

// ListCampaigns returns the campaigns the token can access.
// Failures are returned as-is; there is no retry.
func (c *Client) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var resp campaignsResponse
	if err := c.get(ctx, "/campaigns", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// get performs an authenticated GET and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
