package platform

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/rflorenc/resource-console/internal/logging"
	"github.com/rflorenc/resource-console/internal/models"
)

// Client talks JSON to the remote resource API.
type Client struct {
	target     models.Target
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client for a Target.
func NewClient(target models.Target, opts ...Option) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if target.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	} else if target.CACert != "" {
		caCertPool := x509.NewCertPool()
		if caCertPool.AppendCertsFromPEM([]byte(target.CACert)) {
			transport.TLSClientConfig = &tls.Config{RootCAs: caCertPool}
		}
	}
	timeout := target.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		target: target,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the collection at path. The body must be a JSON array of objects.
func (c *Client) List(ctx context.Context, path string) ([]models.Resource, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return parseCollection(path, body)
}

// Create POSTs payload to the collection at path and returns the raw body.
func (c *Client) Create(ctx context.Context, path string, payload models.Resource) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

// Update PUTs payload to the item addressed by id under path.
func (c *Client) Update(ctx context.Context, path, id string, payload models.Resource) ([]byte, error) {
	return c.do(ctx, http.MethodPut, itemPath(path, id), payload)
}

// Delete removes the item addressed by id under path.
func (c *Client) Delete(ctx context.Context, path, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(path, id), nil)
	return err
}

// Ping checks that path answers with a 2xx status.
func (c *Client) Ping(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodGet, path, nil)
	return err
}

func itemPath(path, id string) string {
	return path + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.target.URL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("remote request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w: %w", method, path, ErrNetworkFailure, err)
	}
	c.logger.Debug("remote request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 200),
		}
	}
	return body, nil
}

// parseCollection decodes a JSON array of objects. Anything else, including
// null elements, is malformed; no partial result is returned.
func parseCollection(path string, body []byte) ([]models.Resource, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("GET %s: %w: expected JSON array", path, ErrMalformedResponse)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("GET %s: %w: %v", path, ErrMalformedResponse, err)
	}
	all := make([]models.Resource, 0, len(raw))
	for i, item := range raw {
		var res models.Resource
		if err := json.Unmarshal(item, &res); err != nil || res == nil {
			return nil, fmt.Errorf("GET %s: %w: element %d is not an object", path, ErrMalformedResponse, i)
		}
		all = append(all, res)
	}
	return all, nil
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
