// Package mcp serves the currency dataset to MCP clients.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wplibs/nodata/pkg/currency"
	"github.com/wplibs/nodata/pkg/paging"
	"github.com/wplibs/nodata/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// CurrencyService is the subset of [currency.Service] the tools need.
type CurrencyService interface {
	List(ctx context.Context, q currency.Query) (*currency.Page, error)
	Analytics(ctx context.Context) (*currency.Analytics, error)
}

// Server exposes list_currencies and get_analytics.
type Server struct {
	svc     CurrencyService
	server  *mcp.Server
	tracer  trace.Tracer
	address string
}

type ServerOpt func(*Server)

func WithTracerProvider(tp trace.TracerProvider) ServerOpt {
	return func(s *Server) {
		s.tracer = tp.Tracer("mcp")
	}
}

// NewServer creates a server for svc. An empty address serves over stdio.
func NewServer(address string, svc CurrencyService, opts ...ServerOpt) *Server {
	s := &Server{
		address: address,
		svc:     svc,
		tracer:  otel.Tracer("mcp"),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version.Get().Short(),
		}, &mcp.ServerOptions{
			Instructions: instructions,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_currencies",
		Description: "List one page of currencies with their price and last update.",
		InputSchema: newListCurrenciesSchema(),
	}, traced(s.tracer, s.handleListCurrencies))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_analytics",
		Description: "Get dataset analytics, such as the time of the last update.",
		InputSchema: newGetAnalyticsSchema(),
	}, traced(s.tracer, s.handleGetAnalytics))
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve runs the server until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.server.Run(ctx, mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr))
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	return s.serveHTTP(ctx)
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	srv := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown MCP server", slog.Any("err", err))
		}
	}()

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

// ListCurrenciesParams are the arguments of list_currencies.
type ListCurrenciesParams struct {
	Code       string `json:"code,omitempty"`
	SortColumn string `json:"sort_column,omitempty"`
	SortOrder  string `json:"sort_order,omitempty"`
	Page       int    `json:"page,omitempty"`
	PerPage    int    `json:"per_page,omitempty"`
}

// Query converts p into a list query. Sort fields are validated; page and
// per_page are normalized.
func (p ListCurrenciesParams) Query() (currency.Query, error) {
	q := currency.Query{
		Code:    p.Code,
		Page:    max(p.Page, 1),
		PerPage: min(paging.NormalizePerPage(p.PerPage), maxPerPage),
	}

	if p.SortColumn == "" {
		if p.SortOrder != "" {
			return q, fmt.Errorf("%w: sort_order requires sort_column", ErrInvalidInput)
		}

		return q, nil
	}

	col, err := currency.ParseColumn(p.SortColumn)
	if err != nil {
		return q, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	order := currency.Order(p.SortOrder)
	switch order {
	case currency.OrderAsc, currency.OrderDesc:
	case currency.OrderNone:
		order = currency.OrderAsc
	default:
		return q, fmt.Errorf("%w: unknown sort order %q", ErrInvalidInput, p.SortOrder)
	}

	q.Sort = currency.Sort{Column: col, Order: order}

	return q, nil
}

// ListCurrenciesResult is the structured output of list_currencies.
type ListCurrenciesResult struct {
	Message    string              `json:"message"`
	Currencies []currency.Currency `json:"currencies"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
	Total      int                 `json:"total"`
}

// GetAnalyticsParams are the (empty) arguments of get_analytics.
type GetAnalyticsParams struct{}

// GetAnalyticsResult is the structured output of get_analytics.
type GetAnalyticsResult struct {
	Update  any    `json:"update"`
	Message string `json:"message"`
}

var ErrInvalidInput = errors.New("invalid input")

func (s *Server) handleListCurrencies(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListCurrenciesParams],
) (*mcp.CallToolResultFor[ListCurrenciesResult], error) {
	q, err := params.Arguments.Query()
	if err != nil {
		return errorResult[ListCurrenciesResult](err), nil
	}

	page, err := s.svc.List(ctx, q)
	if err != nil {
		return errorResult[ListCurrenciesResult](fmt.Errorf("list currencies: %w", err)), nil
	}

	state := paging.State{CurrentPage: q.Page, PerPage: q.PerPage}.WithTotal(page.Total)

	result := ListCurrenciesResult{
		Currencies: page.Items,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: state.TotalPages,
		Total:      page.Total,
	}
	if result.Currencies == nil {
		result.Currencies = []currency.Currency{}
	}

	result.Message = fmt.Sprintf("Found %d currencies, showing page %d of %d.",
		result.Total, result.Page, max(result.TotalPages, 1))

	return &mcp.CallToolResultFor[ListCurrenciesResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: result.Message}},
		StructuredContent: result,
	}, nil
}

func (s *Server) handleGetAnalytics(
	ctx context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[GetAnalyticsParams],
) (*mcp.CallToolResultFor[GetAnalyticsResult], error) {
	a, err := s.svc.Analytics(ctx)
	if err != nil {
		return errorResult[GetAnalyticsResult](fmt.Errorf("get analytics: %w", err)), nil
	}

	result := GetAnalyticsResult{
		Update:  a.Update,
		Message: "No update recorded.",
	}
	if a.Update != nil {
		result.Message = fmt.Sprintf("Last update: %v.", a.Update)
	}

	return &mcp.CallToolResultFor[GetAnalyticsResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: result.Message}},
		StructuredContent: result,
	}, nil
}

// errorResult reports err as a tool error result.
func errorResult[Out any](err error) *mcp.CallToolResultFor[Out] {
	return &mcp.CallToolResultFor[Out]{
		Content: []mcp.Content{&mcp.TextContent{Text: "ERROR: " + err.Error()}},
		IsError: true,
	}
}
