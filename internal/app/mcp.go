package app

import (
	"os"

	"github.com/blackwell-systems/hoshin/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server",
	Long: `Start a Model Context Protocol stdio server so an assistant can query
the Kano engine and stored analyses. The server exposes four tools:

  classify_feature    Category and satisfaction impact for a score pair
  list_analyses       Stored analyses with scores, strengths and weaknesses
  compare_analyses    Generate ranked insights for self vs competitors
  latest_comparison   The most recently generated comparison

Example MCP configuration:
  {"mcpServers":{"hoshin":{"command":"hoshin","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	srv := mcp.NewServer(e.tracker, appVersion, e.logger)
	return srv.Run(cmdContext(cmd), os.Stdin, os.Stdout)
}
