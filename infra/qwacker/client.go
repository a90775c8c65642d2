package qwacker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// Client is a thin HTTP wrapper for the qwacker API.
// It handles base URL construction and bearer token injection. The token is
// passed per call because it belongs to the session, not to the client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a qwacker API client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Unwrap maps well-known statuses onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// IsStatus reports whether err carries an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Get performs a GET request. An empty token sends no Authorization header.
func (c *Client) Get(ctx context.Context, path, token string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, token, nil, "")
}

// Post performs a POST request with the given body content type.
func (c *Client) Post(ctx context.Context, path, token string, body io.Reader, contentType string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, token, body, contentType)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path, token string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, token, nil, "")
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}
