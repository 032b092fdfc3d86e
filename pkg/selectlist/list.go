// Package selectlist implements a dropdown over primitive or record items.
//
// The [Model] never owns the selection: it emits [SelectionChangedMsg] and
// [StatusChangedMsg] and waits for the container to call [Model.SetValue].
package selectlist

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/keys"
	"github.com/wplibs/nodata/pkg/ui/theme"
)

const (
	DefaultLabelKey    = "value"
	DefaultValueKey    = "id"
	DefaultPlaceholder = "Select an option"

	defaultBadgeColor = "primary"
)

// SelectionChangedMsg carries the value of a chosen item; the container is
// expected to store it as the new selection.
type SelectionChangedMsg struct {
	ID    string
	Value any
}

// StatusChangedMsg carries the same value as [SelectionChangedMsg] for
// containers that react to the choice rather than store it.
type StatusChangedMsg struct {
	ID    string
	Value any
}

type Config struct {
	LabelKey    string `json:"labelKey,omitempty"`
	ValueKey    string `json:"valueKey,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	UseBadge    bool   `json:"useBadge,omitempty"`
}

func (c *Config) EnsureDefaults() {
	if c.LabelKey == "" {
		c.LabelKey = DefaultLabelKey
	}

	if c.ValueKey == "" {
		c.ValueKey = DefaultValueKey
	}

	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
}

type KeyBinds struct {
	Toggle *keys.KeyBind `json:"toggle,omitempty"`
	Up     *keys.KeyBind `json:"up,omitempty"`
	Down   *keys.KeyBind `json:"down,omitempty"`
	Choose *keys.KeyBind `json:"choose,omitempty"`
	Close  *keys.KeyBind `json:"close,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Toggle,
		keys.NewBind("sort menu",
			keys.New("s"),
		))
	keys.SetDefaultBind(&kb.Up,
		keys.NewBind("menu up",
			keys.New("up", keys.WithAlias("↑")),
			keys.New("k", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Down,
		keys.NewBind("menu down",
			keys.New("down", keys.WithAlias("↓")),
			keys.New("j", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Choose,
		keys.NewBind("choose",
			keys.New("enter", keys.WithAlias("↵")),
		))
	keys.SetDefaultBind(&kb.Close,
		keys.NewBind("close menu",
			keys.New("esc"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Toggle,
		*kb.Up,
		*kb.Down,
		*kb.Choose,
		*kb.Close,
	}
}

type Model struct {
	theme *theme.Theme
	kb    *KeyBinds
	value any
	index Index
	id    string
	items []Item
	cfg   Config

	cursor   int
	hasValue bool
	open     bool
}

type Opt func(*Model)

func WithTheme(t *theme.Theme) Opt {
	return func(m *Model) {
		m.theme = t
	}
}

func WithKeyBinds(kb *KeyBinds) Opt {
	return func(m *Model) {
		m.kb = kb
	}
}

// WithID tags emitted messages, so a container holding several lists can
// route them.
func WithID(id string) Opt {
	return func(m *Model) {
		m.id = id
	}
}

func New(cfg Config, items []Item, opts ...Opt) *Model {
	cfg.EnsureDefaults()

	m := &Model{
		cfg:   cfg,
		theme: theme.Default,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.kb == nil {
		m.kb = &KeyBinds{}
		m.kb.EnsureDefaults()
	}

	m.SetItems(items)

	return m
}

func (m *Model) Config() Config {
	return m.cfg
}

func (m *Model) Items() []Item {
	return m.items
}

// SetItems replaces the list and rebuilds the index.
func (m *Model) SetItems(items []Item) {
	m.items = items
	m.cursor = min(m.cursor, max(len(items)-1, 0))
	m.Reindex()
}

// Reindex rebuilds the index from the current list.
func (m *Model) Reindex() {
	m.index = BuildIndex(m.items, m.cfg.ValueKey)
}

func (m *Model) Index() Index {
	return m.index
}

// ResolveLabel returns the record's label field, or the primitive itself.
func (m *Model) ResolveLabel(it Item) any {
	return it.project(m.cfg.LabelKey)
}

// ResolveValue returns the record's value field, or the primitive itself.
func (m *Model) ResolveValue(it Item) any {
	return it.project(m.cfg.ValueKey)
}

// Select emits [SelectionChangedMsg] and [StatusChangedMsg] for it.
func (m *Model) Select(it Item) tea.Cmd {
	v := m.ResolveValue(it)
	id := m.id

	return tea.Batch(
		func() tea.Msg {
			return SelectionChangedMsg{ID: id, Value: v}
		},
		func() tea.Msg {
			return StatusChangedMsg{ID: id, Value: v}
		},
	)
}

// SetValue sets the current selection. A nil value clears it.
func (m *Model) SetValue(v any) {
	m.value = v
	m.hasValue = v != nil
}

func (m *Model) Value() (any, bool) {
	return m.value, m.hasValue
}

// CurrentItem looks up the selected value in the index.
func (m *Model) CurrentItem() (Item, bool) {
	if !m.hasValue {
		return Item{}, false
	}

	return m.index.Lookup(m.value)
}

// CurrentLabel returns the label of the selected item. The bool is false when
// nothing is selected or the value is not in the list.
func (m *Model) CurrentLabel() (string, bool) {
	it, ok := m.CurrentItem()
	if !ok {
		return "", false
	}

	return display(m.ResolveLabel(it)), true
}

// BadgeClass returns the badge token for a menu entry, or "" when badges are
// disabled.
func (m *Model) BadgeClass(it Item) string {
	if !m.cfg.UseBadge {
		return ""
	}

	return "badge me-2 bg-" + badgeColor(it)
}

// CurrentBadgeClass returns the badge token for the selected entry, or "" when
// badges are disabled.
func (m *Model) CurrentBadgeClass() string {
	if !m.cfg.UseBadge {
		return ""
	}

	it, _ := m.CurrentItem()

	return "badge bg-" + badgeColor(it)
}

// Visible reports whether the list is worth presenting: a single choice is
// never shown.
func (m *Model) Visible() bool {
	return len(m.items) > 1
}

func (m *Model) Open() bool {
	return m.open
}

func (m *Model) Close() {
	m.open = false
}

// Update handles a key press. The bool reports whether the key was consumed.
// Hidden lists consume nothing.
func (m *Model) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !m.Visible() {
		m.open = false

		return nil, false
	}

	key := msg.String()

	if !m.open {
		if m.kb.Toggle.Match(key) {
			m.open = true
			m.cursor = m.currentIndex()

			return nil, true
		}

		return nil, false
	}

	switch {
	case m.kb.Toggle.Match(key), m.kb.Close.Match(key):
		m.open = false
	case m.kb.Up.Match(key):
		if m.cursor > 0 {
			m.cursor--
		}
	case m.kb.Down.Match(key):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case m.kb.Choose.Match(key):
		m.open = false

		return m.Select(m.items[m.cursor]), true
	}

	// An open menu swallows every key.
	return nil, true
}

func (m *Model) View() string {
	if !m.Visible() {
		return ""
	}

	button := m.Button()
	if !m.open {
		return button
	}

	rows := make([]string, 0, len(m.items)+1)
	rows = append(rows, button)

	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = m.theme.CursorStyle.Render("> ")
		}

		entry := display(m.ResolveLabel(it))
		if tok := m.BadgeClass(it); tok != "" {
			entry = m.theme.Badge(tok).Render(entry)
		} else if i == m.cursor {
			entry = m.theme.SelectedStyle.Render(entry)
		}

		rows = append(rows, cursor+entry)
	}

	return strings.Join(rows, "\n")
}

// Button renders the closed dropdown: the current label, or the placeholder.
func (m *Model) Button() string {
	if !m.Visible() {
		return ""
	}

	label, ok := m.CurrentLabel()
	if !ok {
		label = m.cfg.Placeholder
	}

	return m.theme.Badge(m.CurrentBadgeClass()).Render(label + " ▾")
}

func (m *Model) currentIndex() int {
	cur, ok := m.CurrentItem()
	if !ok {
		return 0
	}

	want := keyOf(m.ResolveValue(cur))
	for i, it := range m.items {
		if keyOf(m.ResolveValue(it)) == want {
			return i
		}
	}

	return 0
}

func badgeColor(it Item) string {
	if c := it.color(); c != "" {
		return c
	}

	return defaultBadgeColor
}
