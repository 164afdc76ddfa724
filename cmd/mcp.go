package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/mcp"
	"github.com/dannybechar/allocation-tracker/internal/metrics"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the alloctrack MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents query exceptions, employees and commitments.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr, so stdio stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(rootCtx)
		defer cancel()

		if cfg.MetricsAddr != "" {
			go func() {
				if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
					contract.LogWarn("Metrics server stopped", err)
				}
			}()
		}
		return mcp.StartMCPServer(ctx, cfg, storeManager, version)
	},
}
