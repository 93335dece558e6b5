package cmd

import (
	"github.com/huangsam/locgraph/internal/iocache"
	"github.com/huangsam/locgraph/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the locgraph MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents fetch line-count series
and windows through standard tools. The repository given here is the default
for tool calls that omit repo_path.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Tool handlers suppress the run header so stdio stays protocol-only.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, gitClient, iocache.Manager)
	},
}
