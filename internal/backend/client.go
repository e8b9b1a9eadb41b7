// Package backend provides a typed client for the CareOps REST API. The
// gateway owns no booking data of its own; every entity here is server-owned
// and reached through this client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/careops/frontdesk/pkg/logging"
)

var clientTracer = otel.Tracer("frontdesk.internal.backend")

// Client is an HTTP client for the CareOps backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new backend client.
// baseURL is the backend root (e.g. "http://localhost:8000").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logging.Default().Component("backend"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get issues a GET and decodes a JSON response into out.
func (c *Client) get(ctx context.Context, path, token string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, token, query, nil, out)
}

// do issues a request with an optional JSON body. A non-nil out receives the
// decoded 2xx response body. Non-2xx responses are mapped by decodeError.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, in, out any) error {
	ctx, span := clientTracer.Start(ctx, "backend.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("frontdesk.http.method", method),
		attribute.String("frontdesk.http.path", path),
	)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("backend: %s %s: %w", method, path, err)
		span.RecordError(err)
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("frontdesk.http.status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := decodeError(resp)
		span.RecordError(err)
		c.logger.Debug("backend request rejected",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"error", err,
		)
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("backend: decode response: %w", err)
		}
	}
	return nil
}

// postForm issues an application/x-www-form-urlencoded POST (login only).
// Form fields are credentials and are never recorded on the span.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	ctx, span := clientTracer.Start(ctx, "backend.login")
	defer span.End()
	span.SetAttributes(attribute.String("frontdesk.http.path", path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("backend: POST %s: %w", path, err)
		span.RecordError(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := decodeError(resp)
		span.RecordError(err)
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("backend: decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token and the caller's role,
// workspace, and permission map.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var result LoginResult
	if err := c.postForm(ctx, "/api/login", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
