// Package uitest holds helpers for testing Bubble Tea models: a teatest
// adapter for models whose Update returns their concrete type, command
// runners and key constructors.
package uitest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

const DefaultTimeout = 3 * time.Second

// BubbleModel is a Bubble Tea model whose Update returns T instead of
// [tea.Model].
type BubbleModel[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (T, tea.Cmd)
	View() string
}

type adapter[T BubbleModel[T]] struct {
	model T
}

func (a adapter[T]) Init() tea.Cmd {
	return a.model.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (a adapter[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.model.Update(msg)

	return adapter[T]{model: m}, cmd
}

func (a adapter[T]) View() string {
	return a.model.View()
}

// NewTestModel starts m in a teatest program with the given terminal size.
func NewTestModel[T BubbleModel[T]](tb testing.TB, m T, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(
		tb, adapter[T]{model: m},
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// WaitForText waits until the output, stripped of ANSI sequences, contains
// every one of subs.
func WaitForText(tb testing.TB, r io.Reader, subs ...string) {
	tb.Helper()

	teatest.WaitFor(tb, r, func(b []byte) bool {
		out := PlainText(string(b))
		for _, s := range subs {
			if !strings.Contains(out, s) {
				return false
			}
		}

		return true
	}, teatest.WithDuration(DefaultTimeout))
}

// PlainText strips ANSI sequences from s.
func PlainText(s string) string {
	return ansi.Strip(s)
}

// RunCmd executes cmd and returns the messages it produces, flattening
// [tea.BatchMsg]. Commands that sleep, such as ticks, block accordingly.
func RunCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var out []tea.Msg
	for _, c := range batch {
		out = append(out, RunCmd(c)...)
	}

	return out
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"home":   tea.KeyHome,
	"end":    tea.KeyEnd,
	"tab":    tea.KeyTab,
	"ctrl+c": tea.KeyCtrlC,
}

// Key returns the key message whose String() is s.
func Key(s string) tea.KeyMsg {
	if t, ok := namedKeys[s]; ok {
		return tea.KeyMsg{Type: t}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
