package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nazedev/botpanel/internal/api"
)

var ErrBaseURLRequired = errors.New("watch: base url required")

const defaultClientTimeout = 10 * time.Second

// APIError is a non-2xx answer from the panel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("watch: http %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status fetches the session view. Gateway markers land in Frontend/Backend.
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.do(ctx, http.MethodGet, api.PathStatus, nil, &out)
	return out, err
}

func (c *Client) Pair(ctx context.Context, phone string) (api.PairResponse, error) {
	var out api.PairResponse
	err := c.do(ctx, http.MethodPost, api.PathPair, map[string]string{"phoneNumber": phone}, &out)
	return out, err
}

func (c *Client) ClearSession(ctx context.Context) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.do(ctx, http.MethodPost, api.PathClearSession, nil, &out)
	return out, err
}

func (c *Client) Settings(ctx context.Context) (api.SettingsResponse, error) {
	var out api.SettingsResponse
	err := c.do(ctx, http.MethodGet, api.PathSettings, nil, &out)
	return out, err
}

func (c *Client) UpdateOwners(ctx context.Context, owners []string) (api.UpdateOwnersResponse, error) {
	var out api.UpdateOwnersResponse
	err := c.do(ctx, http.MethodPost, api.PathUpdateOwner, map[string][]string{"owners": owners}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("watch: encode %s: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("watch: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("watch: decode %s: %w", path, err)
	}
	return nil
}

func errorMessage(data []byte, fallback string) string {
	var env api.ErrorResponse
	if err := json.Unmarshal(data, &env); err == nil && env.Error != "" {
		if env.Message != "" {
			return env.Error + ": " + env.Message
		}
		return env.Error
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return fallback
}
