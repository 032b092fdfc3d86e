// Package client calls the plugin's REST endpoints and normalizes every
// outcome into an [Envelope].
//
// [Client.Call] never returns an error. Transport failures, non-2xx statuses
// and undecodable bodies all resolve to an envelope with Success set to false,
// so callers only ever branch on [Envelope.Success].
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wplibs/nodata/pkg/log"
)

const (
	// HeaderNonce carries the REST nonce on every request.
	HeaderNonce = "X-WP-Nonce"

	DefaultTimeout = 30 * time.Second
)

// Config holds the values the admin page hands to the client.
type Config struct {
	// AjaxURL is the admin-ajax endpoint. It is carried for completeness;
	// REST calls go to BaseURL.
	AjaxURL string
	// BaseURL is the REST namespace root, e.g. "https://example.com/wp-json/api/v1".
	BaseURL string
	// Nonce is added to the body of mutating requests.
	Nonce string
	// RestNonce is sent in the [HeaderNonce] header.
	RestNonce string
	Timeout   time.Duration
}

type Client struct {
	http   *http.Client
	tracer trace.Tracer
	cfg    Config
}

type Opt func(*Client)

// WithHTTPClient replaces the default [http.Client]. Its timeout wins over
// [Config.Timeout].
func WithHTTPClient(hc *http.Client) Opt {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(c *Client) {
		c.tracer = tp.Tracer("client")
	}
}

func New(cfg Config, opts ...Opt) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		tracer: otel.Tracer("client"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}

	return c
}

func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) Get(ctx context.Context, endpoint string, payload map[string]any) *Envelope {
	return c.Call(ctx, endpoint, payload, http.MethodGet)
}

func (c *Client) Post(ctx context.Context, endpoint string, payload map[string]any) *Envelope {
	return c.Call(ctx, endpoint, payload, http.MethodPost)
}

func (c *Client) Put(ctx context.Context, endpoint string, payload map[string]any) *Envelope {
	return c.Call(ctx, endpoint, payload, http.MethodPut)
}

func (c *Client) Delete(ctx context.Context, endpoint string, payload map[string]any) *Envelope {
	return c.Call(ctx, endpoint, payload, http.MethodDelete)
}

// Call sends payload to {BaseURL}/{endpoint}. An empty method means POST.
//
// POST, PUT and DELETE send a JSON body holding the payload plus "action"
// (the endpoint) and "nonce". GET sends the payload as query parameters.
// payload itself is never modified.
func (c *Client) Call(ctx context.Context, endpoint string, payload map[string]any, method string) *Envelope {
	if method == "" {
		method = http.MethodPost
	}

	method = strings.ToUpper(method)

	ctx, span := c.tracer.Start(ctx, "client.call", trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("nodata.endpoint", endpoint),
	))
	defer span.End()

	logger := log.WithContext(ctx).With(
		slog.String("endpoint", endpoint),
		slog.String("method", method),
	)

	req, err := c.newRequest(ctx, endpoint, payload, method)
	if err != nil {
		logger.ErrorContext(ctx, "build request", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, MessageNetworkError)

		return networkError()
	}

	logger.DebugContext(ctx, "sending request", "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "request error", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, MessageNetworkError)

		return networkError()
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.ErrorContext(ctx, "read response", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, MessageNetworkError)

		return networkError()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(ctx, resp.StatusCode, body)
		logger.ErrorContext(ctx, "server error", "status", resp.StatusCode)
		span.SetStatus(codes.Error, msg)

		return serverError(resp.StatusCode, msg)
	}

	env, err := decodeEnvelope(resp.StatusCode, body)
	if err != nil {
		logger.ErrorContext(ctx, "request error", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, MessageNetworkError)

		return networkError()
	}

	span.SetAttributes(attribute.Bool("nodata.success", env.Success))
	logger.DebugContext(ctx, "received response",
		"status", resp.StatusCode,
		"success", env.Success,
		"bytes", len(body),
	)

	return env
}

func (c *Client) newRequest(ctx context.Context, endpoint string, payload map[string]any, method string) (*http.Request, error) {
	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	var body io.Reader

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		b, err := json.Marshal(c.requestBody(endpoint, payload))
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}

		body = bytes.NewReader(b)

	case http.MethodGet:
		q := u.Query()
		if err := addQuery(q, payload); err != nil {
			return nil, err
		}

		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderNonce, c.cfg.RestNonce)

	return req, nil
}

// requestBody returns a copy of payload with "action" and "nonce" set.
func (c *Client) requestBody(endpoint string, payload map[string]any) map[string]any {
	body := make(map[string]any, len(payload)+2)
	maps.Copy(body, payload)

	body["action"] = endpoint
	body["nonce"] = c.cfg.Nonce

	return body
}

func addQuery(q url.Values, payload map[string]any) error {
	for k, v := range payload {
		s, err := queryValue(v)
		if err != nil {
			return fmt.Errorf("encode query parameter %q: %w", k, err)
		}

		q.Set(k, s)
	}

	return nil
}

func queryValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", err //nolint:wrapcheck // Wrapped by addQuery.
	}

	return string(b), nil
}

// errorMessage picks the message for a non-2xx response. A JSON "message"
// is used unless the status is 500; anything else gets [MessageServerError].
func errorMessage(ctx context.Context, status int, body []byte) string {
	logger := log.WithContext(ctx)

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		logger.ErrorContext(ctx, "non-JSON error response", "status", status, "body", string(body))

		return MessageServerError
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "internal server error", "body", string(body))

		return MessageServerError
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return MessageServerError
	}

	if msg, ok := obj["message"].(string); ok && msg != "" {
		return msg
	}

	return MessageServerError
}
