package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jojohnathon/canvas-mcp/internal/observability"
)

const apiPrefix = "/api/v1"

// Config contains the credential and tuning knobs for the Canvas client.
type Config struct {
	BaseURL        string
	APIToken       string
	RequestTimeout time.Duration
	PageSize       int
	PageDelay      time.Duration
	RetryDelay     time.Duration
	MaxPages       int
}

// Client issues authenticated requests against the Canvas REST API. It is
// safe for concurrent use; all fields are set at construction and never
// mutated afterwards.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	pageSize   int
	pageDelay  time.Duration
	retryDelay time.Duration
	maxPages   int
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// New constructs a Canvas client from the provided configuration.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("canvas api token is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("canvas base url is required")
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.PageDelay < 0 {
		cfg.PageDelay = 0
	} else if cfg.PageDelay == 0 {
		cfg.PageDelay = 100 * time.Millisecond
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.APIToken,
		pageSize:   cfg.PageSize,
		pageDelay:  cfg.PageDelay,
		retryDelay: cfg.RetryDelay,
		maxPages:   cfg.MaxPages,
		logger:     logger.With().Str("component", "canvas_client").Logger(),
		tracer:     otel.Tracer("github.com/jojohnathon/canvas-mcp/internal/canvas"),
	}, nil
}

// APIError is a non-2xx response from Canvas. It keeps enough structure for
// callers to distinguish a missing resource from everything else.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("canvas api error %d on %s: %s", e.StatusCode, e.Path, e.Body)
	}
	return fmt.Sprintf("canvas api error %d on %s", e.StatusCode, e.Path)
}

// NotFound reports whether the error is a remote 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a Canvas 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// IsTransient reports whether err is the connection-reset class of network
// failure that the retry policy is allowed to retry. Application-level
// errors (any APIError) are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNRESET) || errors.Is(opErr.Err, syscall.EPIPE)
	}
	return false
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeBody(body, path, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, payload, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	return decodeBody(body, path, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, payload, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}
	return decodeBody(body, path, out)
}

// do issues one HTTP request. path is either a repository-relative API path
// ("/courses") or an absolute URL, which is requested verbatim so that
// pagination follow links keep their embedded page state. It returns the
// response body and the raw Link header.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, string, error) {
	target, err := c.resolveURL(path, query)
	if err != nil {
		return nil, "", err
	}

	ctx, span := c.tracer.Start(ctx, "canvas.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("canvas.path", path),
	))
	defer span.End()

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body for %s: %w", path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.CanvasLatency().WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.CanvasRequests().WithLabelValues(method, "network_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, "", fmt.Errorf("canvas request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.CanvasRequests().WithLabelValues(method, "read_error").Inc()
		span.RecordError(err)
		return nil, "", fmt.Errorf("read response for %s: %w", path, err)
	}

	observability.CanvasRequests().WithLabelValues(method, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("canvas request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Body:       strings.TrimSpace(string(body)),
		}
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, "", apiErr
	}

	return body, resp.Header.Get("Link"), nil
}

func (c *Client) resolveURL(path string, query url.Values) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	target := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		parsed, err := url.Parse(target)
		if err != nil {
			return "", fmt.Errorf("invalid request path %q: %w", path, err)
		}
		merged := parsed.Query()
		for key, values := range query {
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		parsed.RawQuery = merged.Encode()
		target = parsed.String()
	}

	return target, nil
}

func decodeBody(body []byte, path string, out interface{}) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}
