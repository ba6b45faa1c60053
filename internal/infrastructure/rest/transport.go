// Package rest talks to the rule engine's REST API. Transport is the
// uniform get/post/delete contract; the clients in this package build
// rule-chain and component-descriptor calls on top of it.
package rest

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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/pubsub"
	"github.com/zjrosen/rulekit/internal/tracing"
)

var (
	// ErrSourceUnavailable wraps transport failures and 5xx responses.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrNotFound wraps 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned before any request for a malformed entity id.
	ErrInvalidID = errors.New("invalid entity id")
)

// AuthHeader carries the bearer token.
const AuthHeader = "X-Authorization"

// RequestConfig tunes a single request.
type RequestConfig struct {
	// IgnoreErrors keeps a failure off the error stream. The error is still returned.
	IgnoreErrors bool
}

// Transport is the uniform request contract used by the clients.
type Transport interface {
	Get(ctx context.Context, path string, out any, cfg RequestConfig) error
	Post(ctx context.Context, path string, body, out any, cfg RequestConfig) error
	Delete(ctx context.Context, path string, cfg RequestConfig) error
}

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is maps 404 to ErrNotFound and 5xx to ErrSourceUnavailable.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrSourceUnavailable:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// Config configures an HTTPTransport.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPTransport implements Transport with net/http and JSON bodies.
type HTTPTransport struct {
	baseURL string
	token   string
	http    *http.Client
	tracer  trace.Tracer
	errors  *pubsub.Broker[error]
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport. Timeout defaults to 10s.
func NewHTTPTransport(cfg Config, tracer trace.Tracer) *HTTPTransport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if tracer == nil {
		tracer = tracing.Noop().Tracer()
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		tracer:  tracer,
		errors:  pubsub.NewBroker[error](),
	}
}

func (t *HTTPTransport) Get(ctx context.Context, path string, out any, cfg RequestConfig) error {
	return t.do(ctx, http.MethodGet, path, nil, out, cfg)
}

func (t *HTTPTransport) Post(ctx context.Context, path string, body, out any, cfg RequestConfig) error {
	return t.do(ctx, http.MethodPost, path, body, out, cfg)
}

func (t *HTTPTransport) Delete(ctx context.Context, path string, cfg RequestConfig) error {
	return t.do(ctx, http.MethodDelete, path, nil, nil, cfg)
}

// Subscribe streams surfaced request failures until ctx is done.
func (t *HTTPTransport) Subscribe(ctx context.Context) <-chan pubsub.Event[error] {
	return t.errors.Subscribe(ctx)
}

// Close releases error subscribers.
func (t *HTTPTransport) Close() {
	t.errors.Close()
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body, out any, cfg RequestConfig) error {
	ctx, span := t.tracer.Start(ctx, tracing.SpanPrefixTransport+method, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(tracing.AttrHTTPMethod, method), attribute.String(tracing.AttrHTTPRoute, path)))
	defer span.End()

	err := t.roundTrip(ctx, method, path, body, out)
	if err != nil {
		tracing.RecordError(span, err)
		if cfg.IgnoreErrors {
			log.Debug(log.CatHTTP, "request failed", "method", method, "path", path, "error", err)
		} else {
			log.ErrorErr(log.CatHTTP, "request failed", err, "method", method, "path", path)
			t.errors.Publish(pubsub.ErrorEvent, err)
		}
	}
	return err
}

func (t *HTTPTransport) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		req.Header.Set(AuthHeader, "Bearer "+t.token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(msg),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage prefers the "message" field of a JSON error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
