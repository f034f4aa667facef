// Package slack provides the minimal Slack Web API surface the bridge needs:
// looking up a user's profile to learn their email address.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseURL = "https://slack.com"

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client is an HTTP client for the Slack Web API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Slack API client.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Profile is the subset of a user profile the bridge reads. Email is empty
// when the token lacks the users:read.email scope.
type Profile struct {
	Email string `json:"email,omitempty"`
}

// User is a Slack user record.
type User struct {
	ID      string  `json:"id"`
	Profile Profile `json:"profile"`
}

type userInfoResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// UserInfo looks up a user by id. A response with ok=false or without a user
// record is returned as an error carrying Slack's error code.
func (c *Client) UserInfo(ctx context.Context, userID string) (*User, error) {
	reqURL := c.baseURL + "/api/users.info?user=" + url.QueryEscape(userID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result userInfoResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.OK || result.User == nil {
		code := result.Error
		if code == "" {
			code = "unknown_error"
		}
		return nil, fmt.Errorf("Slack API error: %s", code)
	}

	return result.User, nil
}
