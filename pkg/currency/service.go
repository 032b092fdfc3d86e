package currency

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"

	"github.com/wplibs/nodata/pkg/client"
	"github.com/wplibs/nodata/pkg/log"
)

const (
	EndpointList      = "data/list"
	EndpointEdit      = "data/edit"
	EndpointAnalytics = "data/analytics"
	EndpointLog       = "data/log"
)

var (
	// ErrRequestFailed matches every [*EnvelopeError].
	ErrRequestFailed = errors.New("request failed")
	ErrDecode        = errors.New("decode response")
	ErrMissingID     = errors.New("missing currency id")
)

// EnvelopeError is returned when the backend answers with success false.
type EnvelopeError struct {
	Message string
	Status  int
}

func (e *EnvelopeError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}

	return e.Message
}

func (e *EnvelopeError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Caller performs a request and normalizes the outcome. [*client.Client]
// implements it.
type Caller interface {
	Call(ctx context.Context, endpoint string, payload map[string]any, method string) *client.Envelope
}

// Query selects one page of the list endpoint.
type Query struct {
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Sort    Sort   `json:"sort,omitzero" yaml:"sort,omitempty"`
	Page    int    `json:"page" yaml:"page"`
	PerPage int    `json:"per_page" yaml:"per_page"`
}

// Payload returns the request payload for the list endpoint. An inactive sort
// is sent as nulls.
func (q Query) Payload() map[string]any {
	p := map[string]any{
		"page":        max(q.Page, 1),
		"per_page":    q.PerPage,
		"code":        q.Code,
		"sort_column": nil,
		"sort_order":  nil,
	}

	if q.Sort.Active() {
		p["sort_column"] = string(q.Sort.Column)
		p["sort_order"] = string(q.Sort.Order)
	}

	return p
}

// Page is one page of list results.
type Page struct {
	Items []Currency `json:"items" yaml:"items"`
	Query Query      `json:"query" yaml:"query"`
	Total int        `json:"total" yaml:"total"`
}

type Service struct {
	caller Caller
}

func NewService(c Caller) *Service {
	return &Service{caller: c}
}

// List fetches one page. The data field may be {"items": [...], "total": n}
// or a bare array, in which case the total is the array length.
func (s *Service) List(ctx context.Context, q Query) (*Page, error) {
	env := s.caller.Call(ctx, EndpointList, q.Payload(), http.MethodPost)
	if err := envelopeErr(env); err != nil {
		return nil, err
	}

	raw, err := dataOf(env)
	if err != nil {
		return nil, err
	}

	page := &Page{Query: q}

	switch {
	case len(raw) == 0:
	case raw[0] == '[':
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return nil, fmt.Errorf("%w: items: %w", ErrDecode, err)
		}

		page.Total = len(page.Items)

	default:
		var body struct {
			Items []Currency `json:"items"`
			Total Scalar     `json:"total"`
		}

		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("%w: list: %w", ErrDecode, err)
		}

		page.Items = body.Items

		page.Total = len(body.Items)
		if n, ok := body.Total.Int(); ok && n >= 0 {
			page.Total = n
		}
	}

	log.WithContext(ctx).DebugContext(ctx, "listed currencies",
		slog.Int("items", len(page.Items)),
		slog.Int("total", page.Total),
	)

	return page, nil
}

// Edit updates fields of the currency with id.
func (s *Service) Edit(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return ErrMissingID
	}

	payload := make(map[string]any, len(fields)+1)
	maps.Copy(payload, fields)

	payload["id"] = id

	return envelopeErr(s.caller.Call(ctx, EndpointEdit, payload, http.MethodPost))
}

func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	env := s.caller.Call(ctx, EndpointAnalytics, nil, http.MethodGet)
	if err := envelopeErr(env); err != nil {
		return nil, err
	}

	raw, err := dataOf(env)
	if err != nil {
		return nil, err
	}

	a := &Analytics{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, a); err != nil {
			return nil, fmt.Errorf("%w: analytics: %w", ErrDecode, err)
		}
	}

	return a, nil
}

// Log returns the change log of the currency with id.
func (s *Service) Log(ctx context.Context, id string) ([]LogEntry, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	env := s.caller.Call(ctx, EndpointLog, map[string]any{"id": id}, http.MethodPost)
	if err := envelopeErr(env); err != nil {
		return nil, err
	}

	raw, err := dataOf(env)
	if err != nil {
		return nil, err
	}

	entries := []LogEntry{}

	switch {
	case len(raw) == 0:
	case raw[0] == '[':
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("%w: log: %w", ErrDecode, err)
		}

	default:
		var one LogEntry
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("%w: log: %w", ErrDecode, err)
		}

		if len(one) > 0 {
			entries = append(entries, one)
		}
	}

	return entries, nil
}

func envelopeErr(env *client.Envelope) error {
	if env.Success {
		return nil
	}

	msg := env.Message
	if msg == "" {
		msg = "request was not successful"
	}

	return &EnvelopeError{Message: msg, Status: env.Status}
}

// dataOf returns the trimmed "data" field, or nil when it is missing or null.
func dataOf(env *client.Envelope) (json.RawMessage, error) {
	var raw json.RawMessage

	err := env.DecodeData(&raw)
	if errors.Is(err, client.ErrNoData) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return bytes.TrimSpace(raw), nil
}
