package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/config"
	"github.com/wplibs/nodata/pkg/currency"
	"github.com/wplibs/nodata/pkg/expr"
	"github.com/wplibs/nodata/pkg/log"
	"github.com/wplibs/nodata/pkg/mcp"
	"github.com/wplibs/nodata/pkg/ui"
)

const (
	cmdExamples = `  # Browse the currencies of the configured site:
  nodata

  # Point at another site:
  nodata --base-url https://example.com/wp-json/api/v1 --rest-nonce 0a1b2c3d4e

  # Start on page 3 with 50 rows, sorted by price descending:
  nodata --page 3 --per-page 50 --sort price:desc

  # Only show rows that were not updated for a week:
  nodata --where 'row.days_state_at > 7'

  # Send the current page to a file as YAML (disables TUI):
  nodata --code eu > currencies.yaml

  # Serve MCP tools next to the TUI:
  nodata --serve-mcp 127.0.0.1:8765`
)

type RunArgs struct {
	*RootArgs

	Code        string
	Where       string
	Sort        string
	ServeMCP    string
	Page        int
	PerPage     int
	WriteConfig bool
	ShowConfig  bool
	DiffConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&ra.Page, "page", 1, "Initial page")
	f.IntVar(&ra.PerPage, "per-page", 0, "Rows per page, defaults to ui.perPage")
	f.StringVar(&ra.Code, "code", "", "Only list currencies whose code contains this text")
	f.StringVar(&ra.Sort, "sort", "", "Sort column, optionally with an order, e.g. price or price:desc")
	f.StringVar(&ra.Where, "where", "", "CEL expression rows must match, e.g. 'row.price > 1.0'")
	f.StringVar(&ra.ServeMCP, "serve-mcp", "", "Serve the MCP server at the specified address, overrides mcp.addr")
	f.BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	f.BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")
	f.BoolVar(&ra.DiffConfig, "diff-config", false, "Print the difference between the defaults and the active configuration and exit")

	must(cmd.RegisterFlagCompletionFunc("sort", sortCompletion))
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Default command, browse the currencies",
		Example: cmdExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func sortCompletion(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	completions := make([]cobra.Completion, 0, len(currency.SortableColumns)*3)
	for _, c := range currency.SortableColumns {
		completions = append(completions,
			cobra.CompletionWithDesc(string(c), c.Title()),
			cobra.CompletionWithDesc(string(c)+":asc", c.Title()+" ascending"),
			cobra.CompletionWithDesc(string(c)+":desc", c.Title()+" descending"),
		)
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// parseSort parses "column" or "column:order". A missing order is ascending.
func parseSort(s string) (currency.Sort, error) {
	if s == "" {
		return currency.Sort{}, nil
	}

	colName, orderName, _ := strings.Cut(s, ":")

	col, err := currency.ParseColumn(colName)
	if err != nil {
		return currency.Sort{}, fmt.Errorf("invalid argument %q for \"--sort\": %w", s, err)
	}

	order := currency.OrderAsc

	switch strings.ToLower(orderName) {
	case "", "asc":
	case "desc":
		order = currency.OrderDesc
	default:
		return currency.Sort{}, fmt.Errorf("invalid argument %q for \"--sort\": order must be asc or desc", s)
	}

	return currency.Sort{Column: col, Order: order}, nil
}

func (ra *RunArgs) query(perPage int) (currency.Query, error) {
	s, err := parseSort(ra.Sort)
	if err != nil {
		return currency.Query{}, err
	}

	if ra.PerPage > 0 {
		perPage = ra.PerPage
	}

	return currency.Query{
		Code:    ra.Code,
		Sort:    s,
		Page:    max(ra.Page, 1),
		PerPage: perPage,
	}, nil
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx := cmd.Context()

	if ra.WriteConfig {
		// Errors are fatal here, unlike the implicit write in loadConfig.
		return writeConfig(ra.configPath())
	}

	cfg, err := ra.loadConfig()
	if err != nil {
		return err
	}

	if ra.ServeMCP != "" {
		cfg.MCP.Addr = ra.ServeMCP
	}

	if ra.ShowConfig || ra.DiffConfig {
		return showConfig(cmd.OutOrStdout(), cfg, ra)
	}

	q, err := ra.query(cfg.UI.PerPage)
	if err != nil {
		return err
	}

	env, err := expr.NewEnvironment()
	if err != nil {
		return fmt.Errorf("create expression environment: %w", err)
	}

	filter, err := env.NewFilter(ra.Where)
	if err != nil {
		return fmt.Errorf("invalid argument %q for \"--where\": %w", ra.Where, err)
	}

	a, err := newAppFromConfig(ctx, cfg, ra.configPath())
	if err != nil {
		return err
	}
	defer a.close(ctx)

	// If stdout is not a terminal, print the page instead of browsing it.
	if !isTerminal(cmd.OutOrStdout()) {
		return writePage(ctx, cmd.OutOrStdout(), a.svc, q, filter)
	}

	return runUI(cmd, ra, a, q, filter)
}

func writeConfig(path string) error {
	if err := config.WriteDefaultConfig(path, false); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

func showConfig(w io.Writer, cfg *config.Config, ra *RunArgs) error {
	t, err := cfg.UI.LoadTheme()
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}

	if ra.DiffConfig {
		diff, err := configDiff(cfg, ra.configPath())
		if err != nil {
			return err
		}

		if diff == "" {
			slog.Info("active configuration matches the defaults", slog.String("path", ra.configPath()))

			return nil
		}

		return printSource(w, diff, "diff", t)
	}

	slog.Info("active configuration", slog.String("path", ra.configPath()))

	b, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	return printSource(w, string(b), "yaml", t)
}

// writePage fetches one page and writes the rows matching filter as YAML.
func writePage(ctx context.Context, w io.Writer, l ui.Lister, q currency.Query, filter *expr.Filter) error {
	page, err := l.List(ctx, q)
	if err != nil {
		return fmt.Errorf("list currencies: %w", err)
	}

	items, err := filter.Apply(page.Items)
	if err != nil {
		return fmt.Errorf("filter rows: %w", err)
	}

	page.Items = items

	return writeYAML(w, page)
}

func runUI(cmd *cobra.Command, ra *RunArgs, a *app, q currency.Query, filter *expr.Filter) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logBuf := log.NewBuffer(100)

	opts, err := log.ParseOptions(ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	// The TUI owns the terminal; logs are flushed once it exits.
	defer slog.SetDefault(slog.Default())
	slog.SetDefault(slog.New(log.NewHandler(logBuf, opts)))
	defer flushLogs(cmd.ErrOrStderr(), logBuf)

	if addr := a.cfg.MCP.Addr; addr != "" {
		srv := mcp.NewServer(addr, a.svc, mcp.WithTracerProvider(a.tp))

		go func() {
			if err := srv.Serve(ctx); err != nil {
				slog.Error("MCP server failed", slog.Any("err", err))
			}
		}()
	}

	m, err := ui.NewModel(a.cfg.UI, a.svc,
		ui.WithContext(ctx),
		ui.WithFilter(filter),
		ui.WithQuery(q),
	)
	if err != nil {
		return fmt.Errorf("create ui: %w", err)
	}

	_, err = ui.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))

		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

func flushLogs(w io.Writer, buf *log.Buffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Len()),
		slog.Int("max", buf.Cap()),
	)

	if _, err := buf.WriteTo(w); err != nil {
		panic(err)
	}
}
