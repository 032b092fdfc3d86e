// Package theme derives the terminal styles of the currency browser from a
// chroma style, so any chroma theme (or a custom one from the config file)
// can color the UI.
package theme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const Ellipsis = "…"

var (
	ErrInvalidName    = errors.New("invalid theme name")
	ErrRegisterStyles = errors.New("register styles")

	Default = New("github")

	// badgeColors maps the bootstrap contextual color names used by the
	// backend to terminal colors.
	badgeColors = map[string]lipgloss.Color{
		"primary":   lipgloss.Color("#0d6efd"),
		"secondary": lipgloss.Color("#6c757d"),
		"success":   lipgloss.Color("#198754"),
		"danger":    lipgloss.Color("#dc3545"),
		"warning":   lipgloss.Color("#ffc107"),
		"info":      lipgloss.Color("#0dcaf0"),
		"light":     lipgloss.Color("#f8f9fa"),
		"dark":      lipgloss.Color("#212529"),
	}
)

type Theme struct {
	CursorStyle           lipgloss.Style
	ErrorTitleStyle       lipgloss.Style
	FilterStyle           lipgloss.Style
	GenericTextStyle      lipgloss.Style
	HeaderStyle           lipgloss.Style
	HelpStyle             lipgloss.Style
	LogoStyle             lipgloss.Style
	PaginationStyle       lipgloss.Style
	SelectedStyle         lipgloss.Style
	SelectedSubtleStyle   lipgloss.Style
	StatusBarErrorStyle   lipgloss.Style
	StatusBarMessageStyle lipgloss.Style
	StatusBarPosStyle     lipgloss.Style
	StatusBarStyle        lipgloss.Style
	SubtleStyle           lipgloss.Style

	ChromaStyle *chroma.Style
	Ellipsis    string
}

// New returns the theme for a chroma style name. "light", "dark" and "auto"
// are accepted as shortcuts; unknown names fall back to chroma's default.
func New(name string) *Theme {
	style := newChromaStyle(name)

	var (
		genericStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.Background))

		selectedStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.NameTag))

		selectedSubtleStyle = lipgloss.NewStyle().
					Foreground(style.fgWithFactor(chroma.NameTag, 0.3))

		subtleStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.Comment))

		statusBarStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.Background)).
				Background(style.bgWithFactor(chroma.Background, 0.1))
	)

	return &Theme{
		CursorStyle: selectedSubtleStyle,
		ErrorTitleStyle: genericStyle.
			Background(style.fg(chroma.GenericDeleted)),
		FilterStyle:      selectedStyle,
		GenericTextStyle: genericStyle,
		HeaderStyle: genericStyle.
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(style.fg(chroma.Comment)),
		HelpStyle: lipgloss.NewStyle().
			Foreground(style.fgWithFactor(chroma.Background, 0.2)).
			Background(style.bgWithFactor(chroma.Background, 0.2)),
		LogoStyle: lipgloss.NewStyle().
			Foreground(style.bg(chroma.Background)).
			Background(style.fg(chroma.NameTag)).
			Bold(true),
		PaginationStyle:     subtleStyle,
		SelectedStyle:       selectedStyle,
		SelectedSubtleStyle: selectedSubtleStyle,
		StatusBarErrorStyle: lipgloss.NewStyle().
			Foreground(style.bg(chroma.Background)).
			Background(style.fg(chroma.GenericDeleted)),
		StatusBarMessageStyle: lipgloss.NewStyle().
			Foreground(style.bg(chroma.Background)).
			Background(style.fgWithFactor(chroma.NameTag, 0.15)),
		StatusBarPosStyle: lipgloss.NewStyle().
			Foreground(style.fg(chroma.Background)).
			Background(style.bgWithFactor(chroma.Background, 0.15)),
		StatusBarStyle: statusBarStyle,
		SubtleStyle:    subtleStyle,

		ChromaStyle: style.style,
		Ellipsis:    Ellipsis,
	}
}

// Badge returns the style for a badge token such as "badge bg-success". The
// last "bg-" class selects the color; unknown names are passed to lipgloss
// as-is, so hex colors work too.
func (t *Theme) Badge(token string) lipgloss.Style {
	if token == "" {
		return t.GenericTextStyle
	}

	name := "primary"
	for field := range strings.FieldsSeq(token) {
		if c, ok := strings.CutPrefix(field, "bg-"); ok && c != "" {
			name = c
		}
	}

	c, ok := badgeColors[name]
	if !ok {
		c = lipgloss.Color(name)
	}

	fg := lipgloss.Color("#ffffff")
	if name == "warning" || name == "light" || name == "info" {
		fg = lipgloss.Color("#000000")
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(c).
		Padding(0, 1)
}

// Register adds a custom chroma style under name so [New] can use it.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	s, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(s)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(name string) chromaStyle {
	s := styles.Get(styleName(name))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{style: s}
}

func (cs chromaStyle) fg(c chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bg(c chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Background.String())
}

func (cs chromaStyle) fgWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Colour.BrightenOrDarken(factor).String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bgWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Background.BrightenOrDarken(factor).String())
}

func styleName(name string) string {
	switch name {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return defaultStyleName()
	default:
		return name
	}
}

func defaultStyleName() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ""
	}

	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
