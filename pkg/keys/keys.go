// Package keys defines configurable key bindings and renders them as help
// columns.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "…"

// ErrDuplicateKey is returned by [ValidateBinds] when a key code is bound more
// than once.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Key represents a keyboard key with optional alias and visibility settings.
type Key struct {
	// Code is the key code as reported by bubbletea, e.g. "ctrl+c".
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias is an alternative display name for the key.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keeps the key out of help output.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is a described action triggered by any of its keys.
type KeyBind struct {
	// Description of the action, shown in help.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys that trigger the action.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/".
func (kb *KeyBind) String() string {
	visible := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		if k.Hidden {
			continue
		}

		visible = append(visible, k.String())
	}

	return strings.Join(visible, "/")
}

// Match reports whether key triggers the binding. A nil binding never matches.
func (kb *KeyBind) Match(key string) bool {
	if kb == nil {
		return false
	}

	for _, k := range kb.Keys {
		if k.Code == key {
			return true
		}
	}

	return false
}

func (kb *KeyBind) AddKey(key Key) {
	if kb == nil {
		return
	}

	for _, k := range kb.Keys {
		if k.Code == key.Code {
			return
		}
	}

	kb.Keys = append(kb.Keys, key)
}

// StringRow renders the binding as a help row. keyWidth should be the widest
// key string in the column.
func (kb *KeyBind) StringRow(keyWidth, descWidth int) string {
	keys := kb.String()
	if keys == "" {
		return ""
	}

	desc := ansi.Truncate(kb.Description, max(0, descWidth-2), ellipsis)
	keyPad := strings.Repeat(" ", max(0, keyWidth-ansi.StringWidth(keys)))
	descPad := strings.Repeat(" ", max(0, descWidth-ansi.StringWidth(desc)-2))

	return fmt.Sprintf("%s%s  %s%s", keys, keyPad, desc, descPad)
}

// SetDefaultBind fills in kb from defaultKb when kb is nil or incomplete.
func SetDefaultBind(kb **KeyBind, defaultKb KeyBind) {
	if *kb == nil {
		*kb = &defaultKb

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = defaultKb.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = defaultKb.Description
	}
}

// ValidateBinds returns an error for every key code bound more than once
// across all given groups.
func ValidateBinds(groups ...[]KeyBind) error {
	var errs []error

	seen := make(map[string]string)
	for _, group := range groups {
		for _, kb := range group {
			for _, key := range kb.Keys {
				if prev, ok := seen[key.Code]; ok {
					errs = append(errs, fmt.Errorf("%w: %q used by %q and %q",
						ErrDuplicateKey, key.Code, prev, kb.Description))

					continue
				}

				seen[key.Code] = kb.Description
			}
		}
	}

	return errors.Join(errs...)
}

// Renderer lays key bindings out in columns for help views.
type Renderer struct {
	columns [][]KeyBind
}

func (r *Renderer) AddColumn(kbs ...KeyBind) {
	if len(kbs) == 0 {
		return
	}

	r.columns = append(r.columns, kbs)
}

// Height returns the number of rows Render produces.
func (r *Renderer) Height() int {
	h := 0
	for _, col := range r.columns {
		h = max(h, len(col))
	}

	return h
}

func (r *Renderer) Render(width int) string {
	numCols := len(r.columns)
	if numCols == 0 {
		return ""
	}

	colWidth := max(6, width/numCols-2)
	remainder := max(0, width%numCols)

	colRows := make([][]string, numCols)
	maxRows := 0

	for i, col := range r.columns {
		colRows[i] = stringColumn(colWidth, col...)
		maxRows = max(maxRows, len(colRows[i]))
	}

	var sb strings.Builder
	for row := range maxRows {
		for col := range colRows {
			content := strings.Repeat(" ", colWidth)
			if row < len(colRows[col]) {
				content = colRows[col][row]
			}

			sb.WriteString(" " + content + " ")
		}

		sb.WriteString(strings.Repeat(" ", remainder))

		if row < maxRows-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func stringColumn(width int, kbs ...KeyBind) []string {
	maxKeyWidth := 0
	for _, kb := range kbs {
		maxKeyWidth = max(maxKeyWidth, ansi.StringWidth(kb.String()))
	}

	rows := make([]string, 0, len(kbs))
	for _, kb := range kbs {
		if row := kb.StringRow(maxKeyWidth, width-maxKeyWidth); row != "" {
			rows = append(rows, row)
		}
	}

	return rows
}
