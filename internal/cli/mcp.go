package cli

import (
	"github.com/spf13/cobra"

	"github.com/wplibs/nodata/pkg/mcp"
)

func NewMCPCmd(ra *RootArgs) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the currency tools to MCP clients",
		Long: `Serve the list_currencies and get_analytics tools to MCP clients.

Without an address the server speaks MCP over stdio, so it can be started by
the client. With an address it serves streamable HTTP until interrupted.`,
		Example: `  # Serve over stdio:
  nodata mcp

  # Serve over HTTP:
  nodata mcp --addr 127.0.0.1:8765`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := ra.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if !cmd.Flags().Changed("addr") && addr == "" {
				addr = a.cfg.MCP.Addr
			}

			return mcp.NewServer(addr, a.svc, mcp.WithTracerProvider(a.tp)).Serve(ctx) //nolint:wrapcheck // Already wrapped.
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to serve streamable HTTP on, defaults to mcp.addr; empty serves stdio")

	bindEnvVars(cmd)

	return cmd
}
