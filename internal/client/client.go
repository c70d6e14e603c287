// Package client is the Go counterpart of the portal front end's fetch
// helpers: an authenticated JSON client, a remote-then-local fallback, and
// the unauthenticated catalogue fetchers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody caps how much of an error response is read for a message.
const maxErrorBody = 64 << 10

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Requester performs one JSON request. Client and Fallback implement it.
type Requester interface {
	Do(ctx context.Context, method, path string, body, result any) error
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Tokens  TokenSource
	Timeout time.Duration

	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// Client talks to one edu-admin-api base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
	}
}

// BaseURL returns the URL the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends an authenticated request. body, if non-nil, is encoded as JSON;
// a 2xx response is decoded into result when result is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	token := ""
	if c.tokens != nil {
		var err error
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
	}
	return c.do(ctx, method, path, token, body, result)
}

// Get sends an unauthenticated GET and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, result)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, result any) error {
	req, err := c.createRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) createRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// errorMessage makes a best effort at pulling a message out of an error
// body: the {"error": ...} envelope first, then {"message": ...}, then the
// status text.
func errorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(raw) > 0 {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &body) == nil {
			if body.Error != "" {
				return body.Error
			}
			if body.Message != "" {
				return body.Message
			}
		}
	}
	return http.StatusText(resp.StatusCode)
}
