package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nazedev/botpanel/internal/observability"
)

const (
	defaultUpstreamTimeout = 10 * time.Second
	maxBodyBytes           = 1 << 20
)

// Upstream forwards requests to the panel backend.
type Upstream struct {
	baseURL string
	client  *http.Client
}

// UpstreamResponse is a fully read upstream answer.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewUpstream validates backendURL and binds an http.Client with timeout.
func NewUpstream(backendURL string, timeout time.Duration) (*Upstream, error) {
	base, err := normalizeBackendURL(backendURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	return &Upstream{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (u *Upstream) BaseURL() string {
	return u.baseURL
}

// Forward sends method+path (+rawQuery, body) upstream and reads the whole
// answer. Any transport or read failure is an *UpstreamError.
func (u *Upstream) Forward(
	ctx context.Context,
	method string,
	path string,
	rawQuery string,
	body []byte,
	contentType string,
	requestID string,
) (UpstreamResponse, error) {
	target := u.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return UpstreamResponse{}, &UpstreamError{Path: path, Err: err}
	}
	if len(body) > 0 {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(observability.RequestIDHeader, requestID)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return UpstreamResponse{}, &UpstreamError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body)
	if err != nil {
		return UpstreamResponse{}, &UpstreamError{Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: ct,
		Body:        data,
	}, nil
}

// readLimited reads at most maxBodyBytes and fails with ErrBodyTooLarge
// instead of returning a cut body.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, maxBodyBytes)
	}
	return data, nil
}

func normalizeBackendURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidBackendURL)
	}
	if strings.HasPrefix(raw, ":") {
		raw = "localhost" + raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBackendURL, err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidBackendURL, raw)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}
