package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/wplibs/nodata/pkg/config"
	"github.com/wplibs/nodata/pkg/ui/theme"
)

// ColorSchemeFunc colors help and errors with the configured theme, or the
// default theme when the config cannot be loaded.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return ThemeColorScheme(configTheme(config.GetPath()), c)
}

func configTheme(path string) *theme.Theme {
	cl, err := config.NewLoaderFromFile(path)
	if err != nil {
		return theme.Default
	}

	cfg, err := cl.Load()
	if err != nil {
		return theme.Default
	}

	t, err := cfg.UI.LoadTheme()
	if err != nil {
		return theme.Default
	}

	return t
}

func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	accent := t.SelectedStyle.GetForeground()
	text := t.GenericTextStyle.GetForeground()
	subtle := t.SubtleStyle.GetForeground()

	return fang.ColorScheme{
		Base:           text,
		Title:          t.LogoStyle.GetBackground(),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        accent,
		Command:        accent,
		DimmedArgument: subtle,
		Comment:        subtle,
		Flag:           accent,
		Argument:       text,
		Description:    text,
		FlagDefault:    t.SelectedSubtleStyle.GetForeground(),
		QuotedString:   text,
		ErrorHeader: [2]color.Color{
			t.StatusBarErrorStyle.GetForeground(),
			t.StatusBarErrorStyle.GetBackground(),
		},
	}
}
