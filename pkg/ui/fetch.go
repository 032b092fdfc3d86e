package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wplibs/nodata/pkg/currency"
)

const StatusMessageTimeout = 3 * time.Second

// Lister fetches one page of the currency dataset.
type Lister interface {
	List(ctx context.Context, q currency.Query) (*currency.Page, error)
}

// FetchedMsg carries the result of a list request. Seq identifies the
// request; only the result of the latest request is applied.
type FetchedMsg struct {
	Err  error
	Page *currency.Page
	Seq  int
}

type debounceMsg struct {
	seq int
}

type statusTimeoutMsg struct {
	seq int
}

type copiedMsg struct {
	err  error
	code string
}

func fetchCmd(ctx context.Context, l Lister, q currency.Query, seq int) tea.Cmd {
	return func() tea.Msg {
		page, err := l.List(ctx, q)

		return FetchedMsg{Seq: seq, Page: page, Err: err}
	}
}

func debounceCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func statusTimeoutCmd(seq int) tea.Cmd {
	return tea.Tick(StatusMessageTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{seq: seq}
	})
}

func copyCmd(copyFn func(string) error, code string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{code: code, err: copyFn(code)}
	}
}

// systemClipboard copies with OSC 52 and the native clipboard.
func systemClipboard(s string) error {
	termenv.Copy(s)

	return clipboard.WriteAll(s) //nolint:wrapcheck // Reported in the status bar.
}
