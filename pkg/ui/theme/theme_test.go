package theme_test

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wplibs/nodata/pkg/ui/theme"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err     error
		entries chroma.StyleEntries
		name    string
	}{
		"valid entries": {
			name: "nodata-test-theme",
			entries: chroma.StyleEntries{
				chroma.Background:      "#ffffff bg:#000000",
				chroma.Comment:         "italic #008000",
				chroma.NameTag:         "bold #800080",
				chroma.GenericDeleted:  "#ff0000",
				chroma.GenericInserted: "#00ff00",
			},
		},
		"empty name": {
			entries: chroma.StyleEntries{chroma.Background: "#ffffff"},
			err:     theme.ErrInvalidName,
		},
		"invalid color": {
			name:    "nodata-invalid-theme",
			entries: chroma.StyleEntries{chroma.Background: "invalid-color-format"},
			err:     theme.ErrRegisterStyles,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := theme.Register(tc.name, tc.entries)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.name, theme.New(tc.name).ChromaStyle.Name)
		})
	}
}

func TestTheme_Badge(t *testing.T) {
	t.Parallel()

	th := theme.New("github")

	tcs := map[string]struct {
		token string
		bg    lipgloss.TerminalColor
	}{
		"named color": {
			token: "badge bg-success",
			bg:    lipgloss.Color("#198754"),
		},
		"item token": {
			token: "badge me-2 bg-danger",
			bg:    lipgloss.Color("#dc3545"),
		},
		"default color": {
			token: "badge",
			bg:    lipgloss.Color("#0d6efd"),
		},
		"hex color": {
			token: "badge bg-#123456",
			bg:    lipgloss.Color("#123456"),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.bg, th.Badge(tc.token).GetBackground())
		})
	}

	assert.Equal(t, th.GenericTextStyle, th.Badge(""))
}

func TestTheme_DifferentThemesProduceDifferentStyles(t *testing.T) {
	t.Parallel()

	lipgloss.SetColorProfile(termenv.TrueColor)

	light := theme.New("light")
	dark := theme.New("dark")

	assert.NotEqual(t, light.GenericTextStyle.GetForeground(), dark.GenericTextStyle.GetForeground())
}
