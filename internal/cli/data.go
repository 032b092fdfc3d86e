package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/wplibs/nodata/pkg/ui/theme"
)

var (
	ErrNoFields     = errors.New("no fields to update")
	ErrInvalidField = errors.New("invalid field")
)

func NewAnalyticsCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print dataset analytics, such as the last update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := ra.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			analytics, err := a.svc.Analytics(ctx)
			if err != nil {
				return fmt.Errorf("get analytics: %w", err)
			}

			return writeYAML(cmd.OutOrStdout(), analytics)
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func NewLogCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log <id>",
		Short:   "Print the change log of a currency",
		Example: "  nodata log 42",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := ra.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			entries, err := a.svc.Log(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get log of %q: %w", args[0], err)
			}

			return writeYAML(cmd.OutOrStdout(), entries)
		},
	}

	bindEnvVars(cmd)

	return cmd
}

type EditArgs struct {
	*RootArgs

	Set []string
}

func NewEditCmd(ra *RootArgs) *cobra.Command {
	ea := &EditArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update fields of a currency",
		Example: `  # Edit interactively:
  nodata edit 42

  # Set fields directly:
  nodata edit 42 --set price=1.0842 --set name="Euro"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, ea, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&ea.Set, "set", nil, "Field to update as name=value, can be repeated")

	bindEnvVars(cmd)

	return cmd
}

func edit(cmd *cobra.Command, ea *EditArgs, id string) error {
	ctx := cmd.Context()

	a, err := ea.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	fields, err := parseFields(ea.Set)
	if err != nil {
		return err
	}

	if len(fields) == 0 && isTerminal(cmd.OutOrStdout()) {
		t, err := a.cfg.UI.LoadTheme()
		if err != nil {
			return fmt.Errorf("load theme: %w", err)
		}

		fields, err = editForm(cmd, id, t)
		if err != nil {
			return err
		}
	}

	if len(fields) == 0 {
		return ErrNoFields
	}

	if err := a.svc.Edit(ctx, id, fields); err != nil {
		return fmt.Errorf("edit %q: %w", id, err)
	}

	slog.InfoContext(ctx, "currency updated", slog.String("id", id), slog.Int("fields", len(fields)))

	return nil
}

// parseFields parses name=value pairs. Later pairs win.
func parseFields(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))

	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q, want name=value", ErrInvalidField, p)
		}

		fields[name] = value
	}

	return fields, nil
}

// editForm asks for the new name and price. Empty answers are left out.
func editForm(cmd *cobra.Command, id string, t *theme.Theme) (map[string]any, error) {
	var name, price string

	confirm := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Edit currency "+id).
				Description("Leave a field empty to keep its value."),
			huh.NewInput().
				Title("Name").
				Value(&name),
			huh.NewInput().
				Title("Price").
				Validate(validatePrice).
				Value(&price),
			huh.NewConfirm().
				Title("Save changes?").
				Value(&confirm),
		),
	).
		WithTheme(theme.HuhTheme(t)).
		WithInput(cmd.InOrStdin()).
		WithOutput(cmd.OutOrStdout())

	if err := form.RunWithContext(cmd.Context()); err != nil {
		return nil, fmt.Errorf("edit form: %w", err)
	}

	fields := map[string]any{}
	if !confirm {
		return fields, nil
	}

	if name = strings.TrimSpace(name); name != "" {
		fields["name"] = name
	}

	if price = strings.TrimSpace(price); price != "" {
		fields["price"] = price
	}

	return fields, nil
}

func validatePrice(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("price must be a number")
	}

	if f < 0 {
		return errors.New("price must not be negative")
	}

	return nil
}
