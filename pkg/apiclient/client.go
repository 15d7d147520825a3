// Package apiclient is a typed HTTP client for the asset-management API,
// meant for CLI tooling and service-to-service consumers. It layers bearer
// auth, bounded retries and a freshness-aware response cache over net/http.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenProvider supplies the session token for outgoing requests. Returning
// an empty string sends the request unauthenticated.
type TokenProvider func() string

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	StaleTime     time.Duration
	GCTime        time.Duration
	TokenProvider TokenProvider
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:       baseURL,
		Timeout:       10 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    500 * time.Millisecond,
		StaleTime:     30 * time.Second,
		GCTime:        5 * time.Minute,
	}
}

// FieldError mirrors one entry of the API's validation detail list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response decoded into the API's error shape.
type APIError struct {
	StatusCode int
	Message    string       `json:"error"`
	Details    []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s (%d field errors)", e.StatusCode, e.Message, len(e.Details))
}

type Client struct {
	config Config
	http   *http.Client
	cache  *Cache
	logger *slog.Logger
}

func New(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		cache:  NewCache(config.StaleTime, config.GCTime),
		logger: logger,
	}
}

// Cache exposes the client's response cache for invalidation after writes.
func (c *Client) Cache() *Cache {
	return c.cache
}

// Get decodes a JSON GET response into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response for %s: %w", path, err)
	}
	return out, nil
}

// GetCached serves from the cache when the entry is still fresh, refreshes
// through the network when it is stale, and falls back to the stale value if
// that refresh fails.
func GetCached[T any](ctx context.Context, c *Client, path string) (T, error) {
	if value, fresh, ok := c.cache.Get(path); ok && fresh {
		if typed, ok := value.(T); ok {
			return typed, nil
		}
	}

	out, err := Get[T](ctx, c, path)
	if err != nil {
		if value, _, ok := c.cache.Get(path); ok {
			if typed, ok := value.(T); ok {
				c.logger.Warn("serving stale cache entry after fetch failure", "path", path, "error", err)
				return typed, nil
			}
		}
		return out, err
	}

	c.cache.Set(path, out)
	return out, nil
}

// Post sends a JSON body and decodes the JSON response into T. Responses are
// never cached; the affected path is invalidated instead.
func Post[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return write[T](ctx, c, http.MethodPost, path, payload)
}

func Put[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return write[T](ctx, c, http.MethodPut, path, payload)
}

func Patch[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return write[T](ctx, c, http.MethodPatch, path, payload)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	if err == nil {
		c.cache.Invalidate(path)
	}
	return err
}

func write[T any](ctx context.Context, c *Client, method, path string, payload any) (T, error) {
	var out T

	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return out, fmt.Errorf("encode request for %s: %w", path, err)
		}
	}

	respBody, err := c.do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	c.cache.Invalidate(path)

	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &out); err != nil {
			return out, fmt.Errorf("decode response for %s: %w", path, err)
		}
	}
	return out, nil
}

// do performs the request with bounded retries. Network failures and 5xx
// responses retry with exponential backoff; every 4xx is terminal, so an
// expired session or a missing record never burns retry attempts.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + path

	var lastErr error
	delay := c.config.RetryDelay

	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		respBody, retryable, err := c.doOnce(ctx, method, url, body)
		if err == nil {
			return respBody, nil
		}

		lastErr = err
		if !retryable {
			return nil, err
		}
		c.logger.Warn("request failed, retrying",
			"method", method,
			"url", url,
			"attempt", attempt+1,
			"error", err)
	}

	return nil, fmt.Errorf("%s %s: retries exhausted: %w", method, url, lastErr)
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte) (respBody []byte, retryable bool, err error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, false, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.TokenProvider != nil {
		if token := c.config.TokenProvider(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, false, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	if len(data) > 0 {
		// best effort: a non-JSON error body keeps the status text
		_ = json.Unmarshal(data, apiErr)
	}

	return nil, resp.StatusCode >= http.StatusInternalServerError, apiErr
}
