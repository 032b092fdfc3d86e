package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wplibs/nodata/pkg/log"
)

const (
	cmdName = "nodata"
	cmdDesc = `Terminal admin client for the currency dataset of a WordPress site.`
)

// RootArgs are the flags shared by every command.
type RootArgs struct {
	LogLevel     string
	LogFormat    string
	ConfigPath   string
	BaseURL      string
	Nonce        string
	RestNonce    string
	OTLPEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	pf.StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	pf.StringVar(&ra.ConfigPath, "config", "", "Path to the nodata configuration file")
	pf.StringVar(&ra.BaseURL, "base-url", "", "REST API root, overrides api.baseUrl")
	pf.StringVar(&ra.Nonce, "nonce", "", "Request nonce, overrides api.nonce")
	pf.StringVar(&ra.RestNonce, "rest-nonce", "", "REST nonce sent as X-WP-Nonce, overrides api.restNonce")
	pf.StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for traces, overrides telemetry.otlpEndpoint")

	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)

	cmd.AddCommand(
		runCmd,
		NewAnalyticsCmd(args),
		NewLogCmd(args),
		NewEditCmd(args),
		NewMCPCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		opts, err := log.ParseOptions(ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(log.NewHandler(cmd.ErrOrStderr(), opts)))

		return nil
	}
}
