package paging

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/keys"
	"github.com/wplibs/nodata/pkg/ui/theme"
)

// PageChangedMsg asks the owning container to show another page.
type PageChangedMsg struct {
	Page int
}

// PerPageMsg asks the owning container to change the page size.
type PerPageMsg struct {
	Count int
}

type KeyBinds struct {
	Prev    *keys.KeyBind `json:"prev,omitempty"`
	Next    *keys.KeyBind `json:"next,omitempty"`
	First   *keys.KeyBind `json:"first,omitempty"`
	Last    *keys.KeyBind `json:"last,omitempty"`
	PerPage *keys.KeyBind `json:"perPage,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Prev,
		keys.NewBind("previous page",
			keys.New("left", keys.WithAlias("←")),
			keys.New("h"),
		))
	keys.SetDefaultBind(&kb.Next,
		keys.NewBind("next page",
			keys.New("right", keys.WithAlias("→")),
			keys.New("l"),
		))
	keys.SetDefaultBind(&kb.First,
		keys.NewBind("first page",
			keys.New("home"),
			keys.New("g"),
		))
	keys.SetDefaultBind(&kb.Last,
		keys.NewBind("last page",
			keys.New("end"),
			keys.New("G"),
		))
	keys.SetDefaultBind(&kb.PerPage,
		keys.NewBind("rows per page",
			keys.New("p"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Prev,
		*kb.Next,
		*kb.First,
		*kb.Last,
		*kb.PerPage,
	}
}

// Control is a stateless pagination component. It is rebuilt from the
// container's [State] on every render and only emits [PageChangedMsg] and
// [PerPageMsg] intents; it never changes the state itself.
type Control struct {
	theme *theme.Theme
	kb    *KeyBinds
	state State
}

type ControlOpt func(*Control)

func WithTheme(t *theme.Theme) ControlOpt {
	return func(c *Control) {
		c.theme = t
	}
}

func WithKeyBinds(kb *KeyBinds) ControlOpt {
	return func(c *Control) {
		c.kb = kb
	}
}

func NewControl(s State, opts ...ControlOpt) Control {
	c := Control{
		state: s,
		theme: theme.Default,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.kb == nil {
		c.kb = &KeyBinds{}
		c.kb.EnsureDefaults()
	}

	return c
}

// State returns the state the control was built from.
func (c Control) State() State {
	return c.state
}

// Window returns the page window for the current state.
func (c Control) Window() Window {
	return c.state.Window()
}

// GoToPage emits a page change to e. Ellipses and the current page are no-ops.
func (c Control) GoToPage(e Entry) tea.Cmd {
	if e.IsEllipsis() || e.Page() == c.state.CurrentPage {
		return nil
	}

	return emitPage(e.Page())
}

// PrevPage emits a page change to the previous page, unless on page 1.
func (c Control) PrevPage() tea.Cmd {
	if c.state.CurrentPage <= 1 {
		return nil
	}

	return emitPage(c.state.CurrentPage - 1)
}

// NextPage emits a page change to the next page, unless on the last page.
func (c Control) NextPage() tea.Cmd {
	if c.state.CurrentPage >= c.state.TotalPages {
		return nil
	}

	return emitPage(c.state.CurrentPage + 1)
}

func (c Control) FirstPage() tea.Cmd {
	if c.state.TotalPages < 1 {
		return nil
	}

	return c.GoToPage(Page(1))
}

func (c Control) LastPage() tea.Cmd {
	if c.state.TotalPages < 1 {
		return nil
	}

	return c.GoToPage(Page(c.state.TotalPages))
}

// SetPerPage emits a page size change. A zero or negative count means
// [DefaultPerPage].
func (c Control) SetPerPage(count int) tea.Cmd {
	n := NormalizePerPage(count)

	return func() tea.Msg {
		return PerPageMsg{Count: n}
	}
}

// CyclePerPage emits the [PerPageOptions] entry after the current page size,
// wrapping around.
func (c Control) CyclePerPage() tea.Cmd {
	next := PerPageOptions[0]
	for i, n := range PerPageOptions {
		if n == c.state.PerPage {
			next = PerPageOptions[(i+1)%len(PerPageOptions)]

			break
		}
	}

	return c.SetPerPage(next)
}

// Update maps a key press to an intent. The returned bool reports whether
// the key belongs to the control; such keys are consumed even when they
// produce no intent (e.g. "previous" on page 1).
func (c Control) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()

	switch {
	case c.kb.Prev.Match(key):
		return c.PrevPage(), true
	case c.kb.Next.Match(key):
		return c.NextPage(), true
	case c.kb.First.Match(key):
		return c.FirstPage(), true
	case c.kb.Last.Match(key):
		return c.LastPage(), true
	case c.kb.PerPage.Match(key):
		return c.CyclePerPage(), true
	}

	return nil, false
}

// PerPageLabel is "all" for page sizes above [AllThreshold], else the size.
func (c Control) PerPageLabel() string {
	if c.state.PerPage > AllThreshold {
		return "all"
	}

	return strconv.Itoa(c.state.PerPage)
}

func (c Control) View() string {
	t := c.theme

	perPage := t.SubtleStyle.Render("Per page, ") + t.GenericTextStyle.Render(c.PerPageLabel())
	if c.state.TotalPages <= 1 {
		return perPage
	}

	parts := make([]string, 0, len(c.Window())+2)
	parts = append(parts, c.navLabel("‹ Prev", c.state.CurrentPage > 1))

	for _, e := range c.Window() {
		switch {
		case e.IsEllipsis():
			parts = append(parts, t.SubtleStyle.Render(e.String()))
		case e.Page() == c.state.CurrentPage:
			parts = append(parts, t.SelectedStyle.Bold(true).Render("["+e.String()+"]"))
		default:
			parts = append(parts, t.GenericTextStyle.Render(e.String()))
		}
	}

	parts = append(parts, c.navLabel("Next ›", c.state.CurrentPage < c.state.TotalPages))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		perPage,
		"   ",
		t.PaginationStyle.Render(strings.Join(parts, " ")),
	)
}

func (c Control) navLabel(label string, enabled bool) string {
	if enabled {
		return c.theme.SelectedSubtleStyle.Render(label)
	}

	return c.theme.SubtleStyle.Faint(true).Render(label)
}

func emitPage(page int) tea.Cmd {
	return func() tea.Msg {
		return PageChangedMsg{Page: page}
	}
}
