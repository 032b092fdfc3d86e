// Package statusbar renders the one-line status bar and the help pane of the
// currency browser.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/wplibs/nodata/pkg/ui/theme"
	"github.com/wplibs/nodata/pkg/version"
)

const helpText = " ? Help "

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

func (s Style) String() string {
	switch s {
	case StyleSuccess:
		return "success"
	case StyleError:
		return "error"
	default:
		return "normal"
	}
}

// StatusBar is built per frame from the container's state.
type StatusBar struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

type Opt func(*StatusBar)

// WithMessage replaces the note with message, shown in style.
func WithMessage(message string, style Style) Opt {
	return func(sb *StatusBar) {
		sb.message = message
		sb.style = style
	}
}

func New(t *theme.Theme, width int, opts ...Opt) *StatusBar {
	sb := &StatusBar{theme: t, width: max(0, width)}
	for _, opt := range opts {
		opt(sb)
	}

	return sb
}

// Render lays out the logo, the note (or message), the position and the help
// hint, padded to the full width.
func (sb *StatusBar) Render(note, position string) string {
	logo := sb.theme.LogoStyle.Render(fmt.Sprintf(" nodata %s ", version.Get().Short()))
	pos := sb.noteStyle(true).Render(" " + position + " ")
	help := sb.helpStyle().Render(helpText)

	if sb.message != "" {
		note = sb.message
	}

	note = strings.TrimSpace(strings.ReplaceAll(note, "\n", " "))

	avail := max(0, sb.width-
		ansi.PrintableRuneWidth(logo)-
		ansi.PrintableRuneWidth(pos)-
		ansi.PrintableRuneWidth(help))

	//nolint:gosec // Uses max.
	note = truncate.StringWithTail(" "+note+" ", uint(avail), sb.theme.Ellipsis)
	noteView := sb.noteStyle(false).Render(note)

	pad := max(0, avail-ansi.PrintableRuneWidth(noteView))
	fill := sb.noteStyle(false).Render(strings.Repeat(" ", pad))

	return logo + noteView + fill + pos + help
}

func (sb *StatusBar) noteStyle(position bool) lipgloss.Style {
	switch sb.style {
	case StyleError:
		return sb.theme.StatusBarErrorStyle
	case StyleSuccess:
		return sb.theme.StatusBarMessageStyle
	}

	if position {
		return sb.theme.StatusBarPosStyle
	}

	return sb.theme.StatusBarStyle
}

func (sb *StatusBar) helpStyle() lipgloss.Style {
	if sb.style == StyleError {
		return sb.theme.ErrorTitleStyle
	}

	return sb.theme.HelpStyle
}
