package ui_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/currency"
	"github.com/wplibs/nodata/pkg/expr"
	"github.com/wplibs/nodata/pkg/paging"
	"github.com/wplibs/nodata/pkg/selectlist"
	"github.com/wplibs/nodata/pkg/ui"
	"github.com/wplibs/nodata/pkg/ui/theme"
	"github.com/wplibs/nodata/pkg/uitest"
)

var testItems = []currency.Currency{
	{ID: "1", Code: "USD", Name: "US Dollar", Price: "1.0000", StateAt: "2026-10-18 12:00:00"},
	{ID: "2", Code: "EUR", Name: "Euro", Price: "0.92", FormatStateAt: "18.10.2026"},
	{ID: "3", Code: "XAU", Name: "Gold", Price: "2345.5"},
}

type fakeLister struct {
	err     error
	items   []currency.Currency
	queries []currency.Query
	total   int
	mu      sync.Mutex
}

func (f *fakeLister) List(_ context.Context, q currency.Query) (*currency.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	return &currency.Page{Items: f.items, Total: f.total, Query: q}, nil
}

func (f *fakeLister) last(t *testing.T) currency.Query {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.queries)

	return f.queries[len(f.queries)-1]
}

func newModel(t *testing.T, l ui.Lister, opts ...ui.Opt) *ui.Model {
	t.Helper()

	cfg := ui.NewConfig()
	cfg.Debounce = "1ms"

	opts = append([]ui.Opt{
		ui.WithTheme(theme.Default),
		ui.WithClock(func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }),
	}, opts...)

	m, err := ui.NewModel(cfg, l, opts...)
	require.NoError(t, err)

	m, _ = m.Update(tea.WindowSizeMsg{Width: uitest.StandardWidth, Height: uitest.StandardHeight})

	return m
}

func fetched(t *testing.T, cmd tea.Cmd) ui.FetchedMsg {
	t.Helper()

	for _, msg := range uitest.RunCmd(cmd) {
		if f, ok := msg.(ui.FetchedMsg); ok {
			return f
		}
	}

	require.FailNow(t, "command did not fetch")

	return ui.FetchedMsg{}
}

// load runs the initial fetch and applies its result.
func load(t *testing.T, m *ui.Model) *ui.Model {
	t.Helper()

	m, _ = m.Update(fetched(t, m.Init()))

	return m
}

func plain(m *ui.Model) string {
	return uitest.PlainText(m.View())
}

func TestModel_Init(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 3}
	m := newModel(t, l)

	msg := fetched(t, m.Init())
	assert.Equal(t, 1, msg.Seq)
	assert.True(t, m.Loading())
	assert.Equal(t, currency.Query{Page: 1, PerPage: 20}, l.last(t))

	m, _ = m.Update(msg)
	assert.False(t, m.Loading())
	assert.Len(t, m.Items(), 3)
	assert.Equal(t, paging.State{CurrentPage: 1, TotalPages: 1, PerPage: 20}, m.State())
}

func TestModel_Intents(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		msg   tea.Msg
		total int
		want  currency.Query
	}{
		"page changed": {
			msg:   paging.PageChangedMsg{Page: 3},
			total: 100,
			want:  currency.Query{Page: 3, PerPage: 20},
		},
		"page beyond total is clamped": {
			msg:   paging.PageChangedMsg{Page: 9},
			total: 100,
			want:  currency.Query{Page: 5, PerPage: 20},
		},
		"per page resets to page 1": {
			msg:   paging.PerPageMsg{Count: 50},
			total: 100,
			want:  currency.Query{Page: 1, PerPage: 50},
		},
		"zero per page means default": {
			msg:   paging.PerPageMsg{Count: 0},
			total: 100,
			want:  currency.Query{Page: 1, PerPage: 20},
		},
		"sort chosen from menu": {
			msg:   selectlist.StatusChangedMsg{ID: "sort", Value: "price"},
			total: 3,
			want: currency.Query{
				Page:    1,
				PerPage: 20,
				Sort:    currency.Sort{Column: currency.ColumnPrice, Order: currency.OrderAsc},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := &fakeLister{items: testItems, total: tc.total}
			m := load(t, newModel(t, l))

			m, cmd := m.Update(tc.msg)
			m, _ = m.Update(fetched(t, cmd))

			assert.Equal(t, tc.want, l.last(t))
			assert.Equal(t, tc.want.Page, m.State().CurrentPage)
		})
	}
}

func TestModel_IgnoresOtherLists(t *testing.T) {
	t.Parallel()

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}))

	_, cmd := m.Update(selectlist.StatusChangedMsg{ID: "other", Value: "price"})
	assert.Nil(t, cmd)
}

func TestModel_SelectionChanged(t *testing.T) {
	t.Parallel()

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}))
	assert.Contains(t, plain(m), "Unsorted ▾")

	m, cmd := m.Update(selectlist.SelectionChangedMsg{ID: "sort", Value: "days_state_at"})
	assert.Nil(t, cmd)
	assert.Contains(t, plain(m), "Days ▾")
}

func TestModel_SortMenu(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 3}
	m := load(t, newModel(t, l))

	m, cmd := m.Update(uitest.Key("s"))
	assert.Nil(t, cmd)
	assert.Contains(t, plain(m), "Updated")

	m, _ = m.Update(uitest.Key("down"))
	m, cmd = m.Update(uitest.Key("enter"))

	msgs := uitest.RunCmd(cmd)
	require.Len(t, msgs, 2)

	for _, msg := range msgs {
		var next tea.Cmd

		m, next = m.Update(msg)
		if next != nil {
			m, _ = m.Update(fetched(t, next))
		}
	}

	assert.Equal(t, currency.Sort{Column: currency.ColumnPrice, Order: currency.OrderAsc}, l.last(t).Sort)
	assert.Contains(t, plain(m), "Price ▾")
}

func TestModel_SortKeys(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 3}
	m := load(t, newModel(t, l))

	want := []currency.Sort{
		{Column: currency.ColumnPrice, Order: currency.OrderAsc},
		{Column: currency.ColumnPrice, Order: currency.OrderDesc},
		{},
	}

	for _, w := range want {
		var cmd tea.Cmd

		m, cmd = m.Update(uitest.Key("1"))
		m, _ = m.Update(fetched(t, cmd))

		assert.Equal(t, w, l.last(t).Sort)
	}

	m, cmd := m.Update(uitest.Key("3"))
	m, _ = m.Update(fetched(t, cmd))

	assert.Equal(t, currency.Sort{Column: currency.ColumnDaysStateAt, Order: currency.OrderAsc}, l.last(t).Sort)
	assert.Contains(t, plain(m), "Days ▲")
}

func TestModel_Pagination(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 200}
	m := load(t, newModel(t, l))

	out := plain(m)
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "page 1/10")
	assert.Contains(t, out, "200 currencies")

	m, cmd := m.Update(uitest.Key("right"))
	msgs := uitest.RunCmd(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, paging.PageChangedMsg{Page: 2}, msgs[0])

	m, cmd = m.Update(msgs[0])
	m, _ = m.Update(fetched(t, cmd))

	out = plain(m)
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "page 2/10")

	// Row numbers continue from the previous page.
	assert.Contains(t, out, "21")
}

func TestModel_Debounce(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 3}
	m := load(t, newModel(t, l))

	m, _ = m.Update(uitest.Key("/"))
	m, first := m.Update(uitest.Key("u"))
	m, second := m.Update(uitest.Key("s"))

	require.NotNil(t, first)
	require.NotNil(t, second)

	for _, msg := range uitest.RunCmd(first) {
		var cmd tea.Cmd

		m, cmd = m.Update(msg)
		assert.Nil(t, cmd, "stale debounce tick must not fetch")
	}

	var cmd tea.Cmd
	for _, msg := range uitest.RunCmd(second) {
		m, cmd = m.Update(msg)
	}

	m, _ = m.Update(fetched(t, cmd))

	assert.Equal(t, currency.Query{Code: "us", Page: 1, PerPage: 20}, l.last(t))
	assert.Contains(t, plain(m), `code "us"`)
}

func TestModel_FilterEnterAndEscape(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 3}
	m := load(t, newModel(t, l, ui.WithQuery(currency.Query{Page: 1, PerPage: 20})))

	m, _ = m.Update(uitest.Key("/"))
	m, _ = m.Update(uitest.Key("e"))
	m, cmd := m.Update(uitest.Key("enter"))
	m, _ = m.Update(fetched(t, cmd))
	assert.Equal(t, "e", l.last(t).Code)

	// Keys go to the table again once the input is blurred.
	m, cmd = m.Update(uitest.Key("esc"))
	m, _ = m.Update(fetched(t, cmd))
	assert.Empty(t, l.last(t).Code)

	_, cmd = m.Update(uitest.Key("esc"))
	assert.Nil(t, cmd)
}

func TestModel_StaleFetchDropped(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		staleErr error
	}{
		"stale page": {},
		"stale error": {
			staleErr: errors.New("connection reset"),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := &fakeLister{items: testItems, total: 3}
			m := load(t, newModel(t, l))

			l.mu.Lock()
			l.items = testItems[:1]
			l.total = 1
			l.mu.Unlock()

			m, cmd := m.Update(paging.PerPageMsg{Count: 50})
			older := fetched(t, cmd)

			l.mu.Lock()
			l.items = testItems
			l.total = 3
			l.mu.Unlock()

			m, cmd = m.Update(paging.PerPageMsg{Count: 20})
			newer := fetched(t, cmd)

			if tc.staleErr != nil {
				older = ui.FetchedMsg{Seq: older.Seq, Err: tc.staleErr}
			}

			m, _ = m.Update(newer)
			assert.False(t, m.Loading())
			assert.Len(t, m.Items(), 3)

			m, cmd = m.Update(older)
			assert.Nil(t, cmd)
			assert.Len(t, m.Items(), 3)
			assert.Equal(t, 1, m.State().TotalPages)
			assert.Equal(t, 20, m.State().PerPage)
			assert.NotContains(t, plain(m), "connection reset")
		})
	}
}

func TestModel_LoadingUntilLatestFetch(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 3}
	m := load(t, newModel(t, l))

	m, cmd := m.Update(paging.PerPageMsg{Count: 50})
	older := fetched(t, cmd)

	m, cmd = m.Update(uitest.Key("r"))
	newer := fetched(t, cmd)

	m, _ = m.Update(older)
	assert.True(t, m.Loading())

	m, _ = m.Update(newer)
	assert.False(t, m.Loading())
}

func TestModel_FetchError(t *testing.T) {
	t.Parallel()

	l := &fakeLister{err: &currency.EnvelopeError{Message: "Server error", Status: 500}}
	m := load(t, newModel(t, l))

	assert.Contains(t, plain(m), "Server error (status 500)")
	assert.False(t, m.Loading())

	l.mu.Lock()
	l.err = nil
	l.items = testItems
	l.total = 3
	l.mu.Unlock()

	m, cmd := m.Update(uitest.Key("r"))
	m, _ = m.Update(fetched(t, cmd))

	assert.NotContains(t, plain(m), "Server error")
}

func TestModel_ShrinkingTotalRefetches(t *testing.T) {
	t.Parallel()

	l := &fakeLister{items: testItems, total: 3}
	m := newModel(t, l, ui.WithQuery(currency.Query{Page: 4, PerPage: 20}))

	m, cmd := m.Update(fetched(t, m.Init()))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.State().CurrentPage)

	_ = fetched(t, cmd)
	assert.Equal(t, 1, l.last(t).Page)
}

func TestModel_Copy(t *testing.T) {
	t.Parallel()

	var copied []string

	clip := func(s string) error {
		copied = append(copied, s)

		return nil
	}

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}, ui.WithClipboard(clip)))

	m, _ = m.Update(uitest.Key("down"))
	m, cmd := m.Update(uitest.Key("c"))
	require.NotNil(t, cmd)

	m, _ = m.Update(cmd())
	assert.Equal(t, []string{"EUR"}, copied)
	assert.Contains(t, plain(m), "copied EUR")
}

func TestModel_CopyError(t *testing.T) {
	t.Parallel()

	clip := func(string) error { return errors.New("no clipboard") }

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}, ui.WithClipboard(clip)))

	m, cmd := m.Update(uitest.Key("c"))
	m, _ = m.Update(cmd())

	assert.Contains(t, plain(m), "copy USD: no clipboard")
}

func TestModel_WhereFilter(t *testing.T) {
	t.Parallel()

	env, err := expr.NewEnvironment()
	require.NoError(t, err)

	f, err := env.NewFilter("row.price > 1.0")
	require.NoError(t, err)

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}, ui.WithFilter(f)))

	require.Len(t, m.Items(), 1)
	assert.Equal(t, "XAU", m.Items()[0].Code)
	assert.Contains(t, plain(m), "(1 shown)")
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}))
	out := plain(m)

	for _, s := range []string{
		"Currencies",
		"US Dollar",
		"2,345.5",
		"18.10.2026",
		"1 day ago",
		"Per page, 20",
		"3 currencies",
	} {
		assert.Contains(t, out, s)
	}

	// A single page hides the page list.
	assert.NotContains(t, out, "Next ›")
}

func TestModel_Help(t *testing.T) {
	t.Parallel()

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}))
	assert.NotContains(t, plain(m), "toggle help")

	m, _ = m.Update(uitest.Key("?"))
	out := plain(m)
	assert.Contains(t, out, "toggle help")
	assert.Contains(t, out, "next page")
	assert.Contains(t, out, "sort menu")

	m, _ = m.Update(uitest.Key("esc"))
	assert.NotContains(t, plain(m), "toggle help")
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m := load(t, newModel(t, &fakeLister{items: testItems, total: 3}))

	_, cmd := m.Update(uitest.Key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_Program(t *testing.T) {
	t.Parallel()

	m := newModel(t, &fakeLister{items: testItems, total: 3})
	tm := uitest.NewTestModel(t, m, uitest.Standard)

	uitest.WaitForText(t, tm.Output(), "USD", "Gold")

	tm.Send(uitest.Key("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(uitest.DefaultTimeout))
}
