package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wplibs/nodata/pkg/currency"
	"github.com/wplibs/nodata/pkg/keys"
	"github.com/wplibs/nodata/pkg/paging"
	"github.com/wplibs/nodata/pkg/ui/statusbar"
)

const (
	minNameWidth = 8

	// Lines around the table: top bar, detail line, pagination and status bar.
	chromeHeight = 4
)

var fixedColumns = []struct {
	col   currency.Column
	title string
	width int
}{
	{title: "#", width: 5},
	{title: "ID", width: 6},
	{title: "Code", width: 6},
	{title: "Name"},
	{col: currency.ColumnPrice, width: 16},
	{col: currency.ColumnStateAt, width: 20},
	{col: currency.ColumnDaysStateAt, width: 7},
}

func (m *Model) columns() []table.Column {
	used := 0
	for _, c := range fixedColumns {
		used += c.width + 2
	}

	nameWidth := max(minNameWidth, m.width-used-2)

	cols := make([]table.Column, 0, len(fixedColumns))
	for _, c := range fixedColumns {
		title, width := c.title, c.width
		if c.col != "" {
			title = c.col.Title() + " " + m.sort.Indicator(c.col)
		}

		if width == 0 {
			width = nameWidth
		}

		cols = append(cols, table.Column{Title: title, Width: width})
	}

	return cols
}

func (m *Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.items))
	for i, c := range m.items {
		rows = append(rows, table.Row{
			strconv.Itoa(m.state.RowNumber(i)),
			c.ID.String(),
			c.Code,
			c.Name,
			formatPrice(c.Price),
			m.formatStateAt(c),
			c.DaysStateAt.String(),
		})
	}

	return rows
}

func formatPrice(p currency.Scalar) string {
	f, ok := p.Float()
	if !ok {
		return p.String()
	}

	return humanize.CommafWithDigits(f, 4)
}

// formatStateAt prefers the server's formatted date, then a relative time.
func (m *Model) formatStateAt(c currency.Currency) string {
	if c.FormatStateAt != "" {
		return c.FormatStateAt
	}

	t, ok := c.StateTime()
	if !ok {
		return c.StateAt
	}

	return humanize.RelTime(t, m.now(), "ago", "from now")
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - chromeHeight
	if m.showHelp {
		tableHeight -= statusbar.NewHelpRenderer(m.theme, m.helpKeys()).Height(width)
	}

	m.table.SetColumns(m.columns())
	m.table.SetWidth(width)
	m.table.SetHeight(max(3, tableHeight))
	m.overlay.SetSize(width, height)
}

func (m *Model) control() paging.Control {
	return paging.NewControl(m.state,
		paging.WithTheme(m.theme),
		paging.WithKeyBinds(m.kb.Paging),
	)
}

func (m *Model) helpKeys() *keys.Renderer {
	r := &keys.Renderer{}
	r.AddColumn(m.kb.Common.GetKeyBinds()...)
	r.AddColumn(m.kb.Table.GetKeyBinds()...)
	r.AddColumn(m.kb.Paging.GetKeyBinds()...)
	r.AddColumn(m.kb.Sort.GetKeyBinds()...)

	return r
}

func (m *Model) View() string {
	// Column titles carry the sort indicators.
	m.table.SetColumns(m.columns())

	parts := []string{
		m.topBar(),
		m.table.View(),
		m.detail(),
		m.control().View(),
	}

	if m.showHelp {
		parts = append(parts, statusbar.NewHelpRenderer(m.theme, m.helpKeys()).Render(m.width))
	}

	parts = append(parts, m.statusBar())

	view := strings.Join(parts, "\n")

	if m.sortList.Open() {
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.SelectedStyle.GetForeground()).
			Padding(0, 1)
		view = m.overlay.Place(view, m.sortList.View(), 0.3, style)
	}

	return view
}

func (m *Model) topBar() string {
	title := m.theme.LogoStyle.Render(" Currencies ")

	filter := m.input.View()
	if !m.input.Focused() && m.code == "" {
		filter = m.theme.SubtleStyle.Render(m.kb.Common.Filter.String() + " filter by code")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", m.sortList.Button(), "  ", filter)
}

// detail describes the selected row, highlighting the code filter.
func (m *Model) detail() string {
	c, ok := m.selected()
	if !ok {
		return m.theme.SubtleStyle.Render("No currencies")
	}

	code := Highlight(c.Code, m.code, m.theme.FilterStyle.Underline(true))

	return fmt.Sprintf("%s %s %s",
		m.theme.SelectedStyle.Bold(true).Render(code),
		m.theme.GenericTextStyle.Render(c.Name),
		m.theme.SubtleStyle.Render(formatPrice(c.Price)),
	)
}

func (m *Model) statusBar() string {
	var opts []statusbar.Opt
	if m.status.text != "" {
		opts = append(opts, statusbar.WithMessage(m.status.text, m.status.style))
	}

	note := m.note()
	if m.loading {
		note = m.spinner.View() + " loading"
	}

	position := "-"
	if m.state.TotalPages > 0 {
		position = fmt.Sprintf("page %d/%d", m.state.CurrentPage, m.state.TotalPages)
	}

	return statusbar.New(m.theme, m.width, opts...).Render(note, position)
}

func (m *Model) note() string {
	if m.page == nil {
		return ""
	}

	parts := []string{humanize.Comma(int64(m.page.Total)) + " currencies"}
	if m.code != "" {
		parts = append(parts, "code "+strconv.Quote(m.code))
	}

	if m.filter != nil && !m.filter.Empty() {
		parts = append(parts, fmt.Sprintf("where %s (%d shown)", m.filter, len(m.items)))
	}

	return strings.Join(parts, ", ")
}
