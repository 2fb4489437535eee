package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rsawada/aniterm/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "Aniterm/1.0"
)

// Client is the single chokepoint for all backend calls. It joins paths
// against the configured base URL, attaches the bearer token when one is
// supplied, and normalizes failures into domain.ErrBackendUnreachable
// (transport) or *api.Error (non-2xx status).
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new backend API client. A zero timeout falls back to
// the package default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do performs a backend request and returns the raw response body.
// token may be empty for unauthenticated endpoints; body may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, token string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// statusError builds an *Error from a non-2xx response, falling back to a
// generic message when the payload is absent or not parseable JSON.
func (c *Client) statusError(status int, body []byte) error {
	var payload errorBody
	msg := ""
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		msg = payload.text()
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}

	c.logger.Warn("api error response", "status", status, "message", msg)
	return &Error{Status: status, Message: msg}
}

// get issues a GET and decodes the JSON response into dest.
func (c *Client) get(ctx context.Context, path string, query url.Values, token string, dest any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil, token)
	if err != nil {
		return err
	}
	return c.decode(body, dest)
}

// post issues a POST with a JSON body and decodes the response into dest.
// dest may be nil when the caller only cares about success.
func (c *Client) post(ctx context.Context, path string, reqBody any, token string, dest any) error {
	body, err := c.do(ctx, http.MethodPost, path, nil, reqBody, token)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return c.decode(body, dest)
}

// put issues a PUT with a JSON body.
func (c *Client) put(ctx context.Context, path string, reqBody any, token string, dest any) error {
	body, err := c.do(ctx, http.MethodPut, path, nil, reqBody, token)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return c.decode(body, dest)
}

// delete issues a DELETE.
func (c *Client) delete(ctx context.Context, path string, token string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, token)
	return err
}

func (c *Client) decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
