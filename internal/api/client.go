// Package api is a thin client for the BookLib REST backend.
//
// Every request reads the stored auth token immediately before dispatch and,
// when present, sends it as a bearer credential. A 401 response clears the
// stored token before the error is returned. The client never retries.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"booklib/internal/jsonutil"
)

const defaultTimeout = 30 * time.Second

// RequestIDHeader carries a per-request id that also appears in the log.
const RequestIDHeader = "X-Request-ID"

// TokenStore is where the client reads and clears the auth token.
type TokenStore interface {
	Token() (string, bool)
	ClearToken() error
}

// Client talks to the backend. Resource groups hang off the exported fields.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenStore
	logger   *slog.Logger
	tracer   trace.Tracer
	validate *requestValidator

	Auth     *AuthService
	Books    *BooksService
	Reviews  *ReviewsService
	Ratings  *RatingsService
	Comments *CommentsService
}

type service struct {
	client *Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracer sets the tracer used to record one span per request.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// New creates a client for baseURL. tokens may be nil, in which case no
// Authorization header is ever sent.
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		tokens:   tokens,
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer("booklib/api"),
		validate: newRequestValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &AuthService{client: c}
	c.Books = &BooksService{client: c}
	c.Reviews = &ReviewsService{client: c}
	c.Ratings = &RatingsService{client: c}
	c.Comments = &CommentsService{client: c}
	return c
}

// BaseURL returns the URL all request paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request. body (if non-nil) is JSON-encoded; a 2xx response body
// is decoded into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := jsonutil.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	reqID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("booklib.request_id", reqID),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.Warn("api request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return &NetworkError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		// Clear before the caller sees the failure.
		if err := c.tokens.ClearToken(); err != nil {
			c.logger.Warn("clear auth token", "err", err)
		} else {
			c.logger.Info("auth token cleared after 401", "path", path)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return jsonutil.UnmarshalWithContext(data, out, "decode "+method+" "+path)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
