// Package api implements the typed client for the remote restaurant API.
// Every operation maps a non-2xx response to an AppError carrying the
// server's detail text when present, else a fixed per-operation fallback.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuvi-2309/Foodie-Finder/pkg/httpclient"
	"github.com/yuvi-2309/Foodie-Finder/pkg/logger"
	"github.com/yuvi-2309/Foodie-Finder/pkg/tracing"
)

// TokenSource yields the bearer token to attach to authenticated requests.
// The session store implements this.
type TokenSource interface {
	Token() (string, bool)
}

// HTTPDoer abstracts the transport so the client works over the plain
// retrying client or the circuit-breaker wrapper.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is the typed remote API client.
type Client struct {
	baseURL string
	http    HTTPDoer
	tokens  TokenSource
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates an API client rooted at baseURL.
func New(baseURL string, doer HTTPDoer, tokens TokenSource, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		tokens:  tokens,
		logger:  log,
		tracer:  tracing.Tracer("foodiefinder/api"),
	}
}

// newRequest builds a JSON request with bearer token and correlation ID
// headers attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	correlationID := logger.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	req.Header.Set("X-Correlation-ID", correlationID)

	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// do executes the request inside a span and decodes a 2xx JSON body into out
// (which may be nil for empty responses). Non-2xx responses become AppErrors
// with the given fallback message.
func (c *Client) do(ctx context.Context, req *http.Request, fallback string, out any) error {
	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.URL.Path,
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		),
	)
	defer span.End()

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		c.logger.ErrorContext(ctx, "remote call failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, fallback)
	}

	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// get is a convenience wrapper for GET endpoints.
func (c *Client) get(ctx context.Context, path, fallback string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, fallback, out)
}
