package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/wplibs/nodata/pkg/currency"
)

// ErrorHandler prints err below fang's error header. Annotated config
// sources are printed after the message, and usage and request errors end
// with a hint.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	msg, detail, _ := strings.Cut(err.Error(), "\n\n")

	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(msg)))
	mustN(fmt.Fprintln(w))

	if detail != "" {
		mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(detail)))
		mustN(fmt.Fprintln(w))
	}

	var lead, flag, hint string

	switch {
	case isUsageError(err):
		lead, flag, hint = "Try", "--help", "for usage."
	case errors.Is(err, currency.ErrRequestFailed):
		lead, flag, hint = "Check", "--base-url", "and the nonces in the configuration."
	default:
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render(lead),
		styles.Program.Flag.Render(flag),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(hint),
	)))
	mustN(fmt.Fprintln(w))
}

// isUsageError matches cobra's argument and flag errors by prefix, since
// cobra does not type them.
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
