package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/chroma/v2"

	"github.com/wplibs/nodata/pkg/keys"
	"github.com/wplibs/nodata/pkg/paging"
	"github.com/wplibs/nodata/pkg/selectlist"
	"github.com/wplibs/nodata/pkg/ui/theme"
)

const DefaultDebounce = 300 * time.Millisecond

var ErrInvalidDebounce = errors.New("invalid debounce")

// Config contains TUI-specific configuration.
type Config struct {
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Binds"`
	// Themes registers custom chroma styles, selectable by name in Theme.
	Themes map[string]ThemeConfig `json:"themes,omitempty" jsonschema:"title=Themes"`
	// Theme is a chroma style name, or "auto", "light" or "dark".
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
	// Debounce is how long the code filter waits after the last keystroke.
	Debounce string `json:"debounce,omitempty" jsonschema:"title=Debounce,pattern=^[0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h)$"`
	// PerPage is the initial page size. Values above 100 show every row.
	PerPage int `json:"perPage,omitempty" jsonschema:"title=Rows Per Page,minimum=0"`
}

type ThemeConfig struct {
	// Styles maps chroma token types, e.g. "Background" or "NameTag", to
	// chroma style strings.
	Styles map[string]string `json:"styles" jsonschema:"title=Styles"`
}

// Entries converts Styles to chroma style entries.
func (tc ThemeConfig) Entries() (chroma.StyleEntries, error) {
	entries := make(chroma.StyleEntries, len(tc.Styles))
	for name, style := range tc.Styles {
		tt, err := chroma.TokenTypeString(name)
		if err != nil {
			return nil, fmt.Errorf("%w: token type %q", theme.ErrRegisterStyles, name)
		}

		entries[tt] = style
	}

	return entries, nil
}

func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	c.KeyBinds.EnsureDefaults()

	if c.Theme == "" {
		c.Theme = "auto"
	}

	if c.Debounce == "" {
		c.Debounce = DefaultDebounce.String()
	}

	c.PerPage = paging.NormalizePerPage(c.PerPage)
}

// DebounceDuration parses Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c.Debounce == "" {
		return DefaultDebounce, nil
	}

	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDebounce, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidDebounce, c.Debounce)
	}

	return d, nil
}

// Validate checks what the schema cannot: durations and key conflicts.
func (c *Config) Validate() error {
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}

	return c.KeyBinds.Validate()
}

// LoadTheme registers the custom themes and returns the selected one.
func (c *Config) LoadTheme() (*theme.Theme, error) {
	for name, tc := range c.Themes {
		entries, err := tc.Entries()
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}

		if err := theme.Register(name, entries); err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
	}

	return theme.New(c.Theme), nil
}

type KeyBinds struct {
	Common *CommonKeyBinds      `json:"common,omitempty" jsonschema:"title=Common"`
	Table  *TableKeyBinds       `json:"table,omitempty"  jsonschema:"title=Table"`
	Paging *paging.KeyBinds     `json:"paging,omitempty" jsonschema:"title=Pagination"`
	Sort   *selectlist.KeyBinds `json:"sort,omitempty"   jsonschema:"title=Sort Menu"`
}

func (kb *KeyBinds) EnsureDefaults() {
	if kb.Common == nil {
		kb.Common = &CommonKeyBinds{}
	}

	if kb.Table == nil {
		kb.Table = &TableKeyBinds{}
	}

	if kb.Paging == nil {
		kb.Paging = &paging.KeyBinds{}
	}

	if kb.Sort == nil {
		kb.Sort = &selectlist.KeyBinds{}
	}

	kb.Common.EnsureDefaults()
	kb.Table.EnsureDefaults()
	kb.Paging.EnsureDefaults()
	kb.Sort.EnsureDefaults()
}

// Validate reports keys bound to more than one action on the main view. The
// sort menu's navigation keys only apply while it is open and are not
// checked against the table.
func (kb *KeyBinds) Validate() error {
	err := keys.ValidateBinds(
		kb.Common.GetKeyBinds(),
		kb.Table.GetKeyBinds(),
		kb.Paging.GetKeyBinds(),
		[]keys.KeyBind{*kb.Sort.Toggle},
	)
	if err != nil {
		return fmt.Errorf("keybinds: %w", err)
	}

	return nil
}

type CommonKeyBinds struct {
	Quit    *keys.KeyBind `json:"quit,omitempty"`
	Help    *keys.KeyBind `json:"help,omitempty"`
	Refresh *keys.KeyBind `json:"refresh,omitempty"`
	Filter  *keys.KeyBind `json:"filter,omitempty"`
	Escape  *keys.KeyBind `json:"escape,omitempty"`
}

func (kb *CommonKeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Quit,
		keys.NewBind("quit",
			keys.New("q"),
			keys.New("ctrl+c", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Help,
		keys.NewBind("toggle help",
			keys.New("?"),
		))
	keys.SetDefaultBind(&kb.Refresh,
		keys.NewBind("refresh",
			keys.New("r"),
		))
	keys.SetDefaultBind(&kb.Filter,
		keys.NewBind("filter by code",
			keys.New("/"),
		))
	keys.SetDefaultBind(&kb.Escape,
		keys.NewBind("clear filter",
			keys.New("esc"),
		))
}

func (kb *CommonKeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Quit,
		*kb.Help,
		*kb.Refresh,
		*kb.Filter,
		*kb.Escape,
	}
}

type TableKeyBinds struct {
	Up          *keys.KeyBind `json:"up,omitempty"`
	Down        *keys.KeyBind `json:"down,omitempty"`
	SortPrice   *keys.KeyBind `json:"sortPrice,omitempty"`
	SortStateAt *keys.KeyBind `json:"sortStateAt,omitempty"`
	SortDays    *keys.KeyBind `json:"sortDays,omitempty"`
	CopyCode    *keys.KeyBind `json:"copyCode,omitempty"`
}

func (kb *TableKeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Up,
		keys.NewBind("move up",
			keys.New("up", keys.WithAlias("↑")),
			keys.New("k"),
		))
	keys.SetDefaultBind(&kb.Down,
		keys.NewBind("move down",
			keys.New("down", keys.WithAlias("↓")),
			keys.New("j"),
		))
	keys.SetDefaultBind(&kb.SortPrice,
		keys.NewBind("sort by price",
			keys.New("1"),
		))
	keys.SetDefaultBind(&kb.SortStateAt,
		keys.NewBind("sort by update",
			keys.New("2"),
		))
	keys.SetDefaultBind(&kb.SortDays,
		keys.NewBind("sort by days",
			keys.New("3"),
		))
	keys.SetDefaultBind(&kb.CopyCode,
		keys.NewBind("copy code",
			keys.New("c"),
		))
}

func (kb *TableKeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Up,
		*kb.Down,
		*kb.SortPrice,
		*kb.SortStateAt,
		*kb.SortDays,
		*kb.CopyCode,
	}
}
