// Package factnews is the typed HTTP client for the FactNews API: sources, articles,
// daily papers and the fact-check endpoints.
//
// Every call runs through a circuit breaker, is traced with OpenTelemetry and is counted
// in Prometheus. Failures are reported as *TransportError (no response), *APIError
// (non-2xx) or *DecodeError (unreadable 2xx body). A 404 APIError matches entity.ErrNotFound.
package factnews

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fact-news/internal/observability/tracing"
	"fact-news/internal/repository"
	"fact-news/internal/resilience/circuitbreaker"
)

const (
	// DefaultBaseURL is where the FactNews API listens in development.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout bounds a single API call. Fact-checking is slow upstream.
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the FactNews API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	metrics    MetricsRecorder
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics replaces the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithBreakerConfig replaces the circuit breaker settings.
func WithBreakerConfig(cfg circuitbreaker.Config) Option {
	return func(c *Client) { c.breaker = newBreaker(cfg) }
}

// New creates a client for the API at cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("factnews: invalid base URL %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker(circuitbreaker.FactNewsAPIConfig()),
		metrics:    PrometheusMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newBreaker(cfg circuitbreaker.Config) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(cfg, func(err error) bool { return !countsAsFailure(err) })
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// BreakerOpen reports whether calls are currently being short-circuited.
func (c *Client) BreakerOpen() bool { return c.breaker.IsOpen() }

// Ping checks that the API answers at all. Any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/sources", nil), nil)
	if err != nil {
		return fmt.Errorf("factnews ping: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "ping", Err: err}
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one JSON call. payload and result may be nil.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload, result interface{}) error {
	ctx, span := tracing.GetTracer().Start(ctx, "factnews."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.breaker.Run(func() error {
		return c.roundTrip(ctx, op, method, path, query, payload, result)
	})
	if circuitbreaker.IsRejection(err) {
		err = &TransportError{Op: op, Err: err}
	}
	c.metrics.RecordRequest(op, outcomeOf(err), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcomeOf(err))
		if apiErr, ok := err.(*APIError); ok {
			span.SetAttributes(attribute.Int("http.status_code", apiErr.Status))
		}
		return err
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, query url.Values, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("factnews %s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("factnews %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp.StatusCode, respBody)
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

var (
	_ repository.SourceRepository  = (*Client)(nil)
	_ repository.ArticleRepository = (*Client)(nil)
	_ repository.PaperRepository   = (*Client)(nil)
)
