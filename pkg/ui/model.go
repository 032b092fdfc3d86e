// Package ui implements the terminal currency browser.
//
// [Model] is the container: it owns the pagination state, the code filter and
// the sort, and applies the intents its children emit ([paging.PageChangedMsg],
// [paging.PerPageMsg], [selectlist.SelectionChangedMsg] and
// [selectlist.StatusChangedMsg]) before fetching the page again.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/currency"
	"github.com/wplibs/nodata/pkg/expr"
	"github.com/wplibs/nodata/pkg/log"
	"github.com/wplibs/nodata/pkg/paging"
	"github.com/wplibs/nodata/pkg/selectlist"
	"github.com/wplibs/nodata/pkg/ui/overlay"
	"github.com/wplibs/nodata/pkg/ui/statusbar"
	"github.com/wplibs/nodata/pkg/ui/theme"
)

const sortListID = "sort"

type statusMessage struct {
	text  string
	style statusbar.Style
}

type Model struct {
	ctx      context.Context //nolint:containedctx // Bound to the program lifetime.
	lister   Lister
	filter   *expr.Filter
	kb       *KeyBinds
	theme    *theme.Theme
	sortList *selectlist.Model
	overlay  *overlay.Overlay
	copyFn   func(string) error
	now      func() time.Time
	page     *currency.Page
	items    []currency.Currency
	status   statusMessage
	code     string
	sort     currency.Sort
	table    table.Model
	input    textinput.Model
	spinner  spinner.Model
	state    paging.State
	debounce time.Duration

	width       int
	height      int
	fetchSeq    int
	debounceSeq int
	statusSeq   int
	loading     bool
	showHelp    bool
}

type Opt func(*Model)

// WithContext sets the context passed to the [Lister].
func WithContext(ctx context.Context) Opt {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// WithFilter drops fetched rows that do not match f.
func WithFilter(f *expr.Filter) Opt {
	return func(m *Model) {
		m.filter = f
	}
}

// WithQuery sets the initial page, page size, code filter and sort.
func WithQuery(q currency.Query) Opt {
	return func(m *Model) {
		m.code = q.Code
		m.sort = q.Sort
		m.state = paging.State{
			CurrentPage: max(q.Page, 1),
			PerPage:     paging.NormalizePerPage(q.PerPage),
		}
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(fn func(string) error) Opt {
	return func(m *Model) {
		m.copyFn = fn
	}
}

// WithClock sets the time used for relative dates.
func WithClock(now func() time.Time) Opt {
	return func(m *Model) {
		m.now = now
	}
}

// WithTheme overrides the theme from the config.
func WithTheme(t *theme.Theme) Opt {
	return func(m *Model) {
		m.theme = t
	}
}

func NewModel(cfg *Config, l Lister, opts ...Opt) (*Model, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return nil, err
	}

	m := &Model{
		ctx:      context.Background(),
		lister:   l,
		kb:       cfg.KeyBinds,
		state:    paging.NewState(cfg.PerPage),
		debounce: debounce,
		copyFn:   systemClipboard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.theme == nil {
		m.theme, err = cfg.LoadTheme()
		if err != nil {
			return nil, err
		}
	}

	m.sortList = selectlist.New(
		selectlist.Config{UseBadge: true, Placeholder: "Sort"},
		sortItems(),
		selectlist.WithID(sortListID),
		selectlist.WithTheme(m.theme),
		selectlist.WithKeyBinds(m.kb.Sort),
	)
	m.sortList.SetValue(string(m.sort.Column))

	m.input = textinput.New()
	m.input.Prompt = "/ "
	m.input.Placeholder = "currency code"
	m.input.CharLimit = 16
	m.input.PromptStyle = m.theme.FilterStyle
	m.input.SetValue(m.code)
	m.input.Cursor.SetMode(cursor.CursorStatic)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Line
	m.spinner.Style = m.theme.GenericTextStyle

	styles := table.DefaultStyles()
	styles.Header = m.theme.HeaderStyle.Padding(0, 1)
	styles.Selected = m.theme.SelectedStyle.Bold(true)

	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithStyles(styles),
	)

	m.overlay = overlay.New(m.theme)

	return m, nil
}

// NewProgram returns a full screen program for m.
func NewProgram(m *Model, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting nodata ui")

	return tea.NewProgram(program{m}, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}

func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

// State returns the pagination state.
func (m *Model) State() paging.State {
	return m.state
}

// Query returns the query for the current state.
func (m *Model) Query() currency.Query {
	return currency.Query{
		Code:    m.code,
		Sort:    m.sort,
		Page:    m.state.CurrentPage,
		PerPage: m.state.PerPage,
	}
}

// Items returns the rows of the current page after local filtering.
func (m *Model) Items() []currency.Currency {
	return m.items
}

// Loading reports whether the latest request is still pending.
func (m *Model) Loading() bool {
	return m.loading
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case paging.PageChangedMsg:
		m.state.CurrentPage = msg.Page
		m.state = m.state.Clamp()

		return m, m.fetch()

	case paging.PerPageMsg:
		m.state.PerPage = paging.NormalizePerPage(msg.Count)
		m.state.CurrentPage = 1

		return m, m.fetch()

	case selectlist.SelectionChangedMsg:
		if msg.ID == sortListID {
			m.sortList.SetValue(msg.Value)
		}

	case selectlist.StatusChangedMsg:
		if msg.ID != sortListID {
			break
		}

		return m, m.sortBy(fmt.Sprint(msg.Value))

	case debounceMsg:
		if msg.seq != m.debounceSeq {
			break
		}

		return m, m.applyCode()

	case FetchedMsg:
		return m, m.handleFetched(msg)

	case copiedMsg:
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("copy %s: %v", msg.code, msg.err), statusbar.StyleError)
		}

		return m, m.setStatus("copied "+msg.code, statusbar.StyleSuccess)

	case statusTimeoutMsg:
		if msg.seq == m.statusSeq {
			m.status = statusMessage{}
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	common := m.kb.Common

	if m.input.Focused() {
		return m.handleInputKey(msg)
	}

	if cmd, ok := m.sortList.Update(msg); ok {
		return cmd
	}

	switch {
	case common.Quit.Match(key):
		return tea.Quit
	case common.Help.Match(key):
		m.showHelp = !m.showHelp
		m.setSize(m.width, m.height)

		return nil
	case common.Refresh.Match(key):
		return m.fetch()
	case common.Filter.Match(key):
		return m.input.Focus()
	case common.Escape.Match(key):
		return m.escape()
	}

	if cmd, ok := m.handleTableKey(key); ok {
		return cmd
	}

	cmd, _ := m.control().Update(msg)

	return cmd
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()

		return nil
	case tea.KeyEnter:
		m.input.Blur()
		m.debounceSeq++

		return m.applyCode()
	case tea.KeyCtrlC:
		return tea.Quit
	}

	before := m.input.Value()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}

	m.debounceSeq++

	return tea.Batch(cmd, debounceCmd(m.debounce, m.debounceSeq))
}

func (m *Model) handleTableKey(key string) (tea.Cmd, bool) {
	tkb := m.kb.Table

	switch {
	case tkb.Up.Match(key):
		m.table.MoveUp(1)
	case tkb.Down.Match(key):
		m.table.MoveDown(1)
	case tkb.SortPrice.Match(key):
		return m.toggleSort(currency.ColumnPrice), true
	case tkb.SortStateAt.Match(key):
		return m.toggleSort(currency.ColumnStateAt), true
	case tkb.SortDays.Match(key):
		return m.toggleSort(currency.ColumnDaysStateAt), true
	case tkb.CopyCode.Match(key):
		c, ok := m.selected()
		if !ok || c.Code == "" {
			return nil, true
		}

		return copyCmd(m.copyFn, c.Code), true
	default:
		return nil, false
	}

	return nil, true
}

// escape closes the help pane, or clears the code filter.
func (m *Model) escape() tea.Cmd {
	if m.showHelp {
		m.showHelp = false
		m.setSize(m.width, m.height)

		return nil
	}

	if m.code == "" && m.input.Value() == "" {
		return nil
	}

	m.input.SetValue("")
	m.debounceSeq++

	return m.applyCode()
}

// applyCode makes the input value the code filter and fetches page 1.
func (m *Model) applyCode() tea.Cmd {
	code := m.input.Value()
	if code == m.code {
		return nil
	}

	m.code = code
	m.state.CurrentPage = 1

	return m.fetch()
}

func (m *Model) toggleSort(col currency.Column) tea.Cmd {
	m.sort = m.sort.Toggle(col)
	if !m.sort.Active() {
		m.sort = currency.Sort{}
	}

	m.sortList.SetValue(string(m.sort.Column))

	return m.fetch()
}

// sortBy applies a choice from the sort menu. An empty column clears the sort;
// choosing the active column keeps its order.
func (m *Model) sortBy(value string) tea.Cmd {
	if value == "" {
		if !m.sort.Active() {
			return nil
		}

		m.sort = currency.Sort{}

		return m.fetch()
	}

	col, err := currency.ParseColumn(value)
	if err != nil {
		return m.setStatus(err.Error(), statusbar.StyleError)
	}

	if m.sort.Column == col && m.sort.Active() {
		return nil
	}

	m.sort = m.sort.Toggle(col)

	return m.fetch()
}

func (m *Model) fetch() tea.Cmd {
	m.fetchSeq++
	m.loading = true

	q := m.Query()

	log.WithContext(m.ctx).DebugContext(m.ctx, "fetch page",
		slog.Int("seq", m.fetchSeq),
		slog.Int("page", q.Page),
		slog.Int("per_page", q.PerPage),
		slog.String("code", q.Code),
		slog.String("sort", string(q.Sort.Column)+" "+string(q.Sort.Order)),
	)

	return tea.Batch(fetchCmd(m.ctx, m.lister, q, m.fetchSeq), m.spinner.Tick)
}

func (m *Model) handleFetched(msg FetchedMsg) tea.Cmd {
	if msg.Seq != m.fetchSeq {
		log.WithContext(m.ctx).DebugContext(m.ctx, "drop superseded fetch",
			slog.Int("seq", msg.Seq),
			slog.Int("latest", m.fetchSeq),
		)

		return nil
	}

	m.loading = false

	if msg.Err != nil {
		log.WithContext(m.ctx).DebugContext(m.ctx, "fetch failed",
			slog.Int("seq", msg.Seq),
			slog.Any("err", msg.Err),
		)

		return m.setStatus(msg.Err.Error(), statusbar.StyleError)
	}

	if msg.Page == nil {
		return nil
	}

	m.page = msg.Page

	requested := msg.Page.Query.Page
	m.state = m.state.WithTotal(msg.Page.Total)

	var cmd tea.Cmd

	items := msg.Page.Items
	if m.filter != nil && !m.filter.Empty() {
		var err error

		items, err = m.filter.Apply(items)
		if err != nil {
			cmd = m.setStatus("filter: "+err.Error(), statusbar.StyleError)
		}
	}

	m.items = items
	m.table.SetRows(m.rows())
	m.table.SetCursor(0)

	if m.status.style == statusbar.StyleError && cmd == nil {
		m.status = statusMessage{}
	}

	// The total shrank below the requested page.
	if requested > m.state.CurrentPage && m.state.TotalPages > 0 {
		return tea.Batch(cmd, m.fetch())
	}

	return cmd
}

func (m *Model) setStatus(text string, style statusbar.Style) tea.Cmd {
	m.statusSeq++
	m.status = statusMessage{text: text, style: style}

	if style == statusbar.StyleError {
		return nil
	}

	return statusTimeoutCmd(m.statusSeq)
}

func (m *Model) selected() (currency.Currency, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return currency.Currency{}, false
	}

	return m.items[i], true
}

func sortItems() []selectlist.Item {
	items := []selectlist.Item{
		selectlist.Record(map[string]any{"id": "", "value": "Unsorted", "color": "secondary"}),
	}

	for _, col := range currency.SortableColumns {
		items = append(items, selectlist.Record(map[string]any{
			"id":    string(col),
			"value": col.Title(),
			"color": sortColors[col],
		}))
	}

	return items
}

var sortColors = map[currency.Column]string{
	currency.ColumnPrice:       "success",
	currency.ColumnStateAt:     "info",
	currency.ColumnDaysStateAt: "warning",
}

// program adapts [*Model] to [tea.Model].
type program struct {
	m *Model
}

func (p program) Init() tea.Cmd {
	return p.m.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (p program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.m.Update(msg)

	return program{m}, cmd
}

func (p program) View() string {
	return p.m.View()
}
