package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/aymanbagabas/go-udiff"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"github.com/wplibs/nodata/pkg/client"
	"github.com/wplibs/nodata/pkg/config"
	"github.com/wplibs/nodata/pkg/currency"
	"github.com/wplibs/nodata/pkg/telemetry"
	"github.com/wplibs/nodata/pkg/ui/theme"
	"github.com/wplibs/nodata/pkg/version"
	"github.com/wplibs/nodata/pkg/yaml"
)

// app is the configured backend shared by all commands.
type app struct {
	cfg        *config.Config
	svc        *currency.Service
	tp         trace.TracerProvider
	shutdown   telemetry.ShutdownFunc
	configPath string
}

func (ra *RootArgs) configPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return config.GetPath()
}

// loadConfig reads the config file, writing the default one first when it
// does not exist. A missing or unreadable file falls back to the defaults;
// an invalid one is an error. Flags override file values.
func (ra *RootArgs) loadConfig() (*config.Config, error) {
	path := ra.configPath()

	if err := config.WriteDefaultConfig(path, false); err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}

	cfg := config.NewConfig()

	cl, err := config.NewLoaderFromFile(path)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))
	} else {
		if err := cl.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}

		cfg, err = cl.Load()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}
	}

	ra.applyOverrides(cfg)

	return cfg, nil
}

func (ra *RootArgs) applyOverrides(cfg *config.Config) {
	if ra.BaseURL != "" {
		cfg.API.BaseURL = ra.BaseURL
	}

	if ra.Nonce != "" {
		cfg.API.Nonce = ra.Nonce
	}

	if ra.RestNonce != "" {
		cfg.API.RestNonce = ra.RestNonce
	}

	if ra.OTLPEndpoint != "" {
		cfg.Telemetry.OTLPEndpoint = ra.OTLPEndpoint
	}
}

// newApp loads the config and connects the currency service. Callers must
// run app.close when done.
func (ra *RootArgs) newApp(ctx context.Context) (*app, error) {
	cfg, err := ra.loadConfig()
	if err != nil {
		return nil, err
	}

	return newAppFromConfig(ctx, cfg, ra.configPath())
}

func newAppFromConfig(ctx context.Context, cfg *config.Config, path string) (*app, error) {
	clientCfg, err := cfg.API.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("api config: %w", err)
	}

	tp, shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceVersion: version.Get().Short(),
	})
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	c := client.New(clientCfg, client.WithTracerProvider(tp))

	slog.DebugContext(ctx, "connected client",
		slog.String("base_url", clientCfg.BaseURL),
		slog.String("config", path),
	)

	return &app{
		cfg:        cfg,
		svc:        currency.NewService(c),
		tp:         tp,
		shutdown:   shutdown,
		configPath: path,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(context.WithoutCancel(ctx)); err != nil {
		slog.WarnContext(ctx, "shutdown telemetry", slog.Any("err", err))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// writeYAML encodes v to w.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}

// printSource writes src to w, highlighted with the config theme when w is a
// terminal.
func printSource(w io.Writer, src, lexer string, t *theme.Theme) error {
	if isTerminal(w) && t != nil && t.ChromaStyle != nil {
		if err := quick.Highlight(w, src, lexer, "terminal256", t.ChromaStyle.Name); err == nil {
			return nil
		}
	}

	if _, err := io.WriteString(w, src); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// configDiff returns a unified diff from the default configuration to cfg.
// It is empty when cfg only holds defaults.
func configDiff(cfg *config.Config, path string) (string, error) {
	defaults, err := config.NewConfig().MarshalYAML()
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}

	active, err := cfg.MarshalYAML()
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	return udiff.Unified("defaults", path, string(defaults), string(active)), nil
}
