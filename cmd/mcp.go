package cmd

import (
	"log/slog"

	"github.com/KaramelBytes/dataqa-cli/internal/mcptools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// version is reported to MCP clients.
var version = "0.1.0"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio exposing analyze_file and profile_columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		// the per-call insights argument decides, so the AI narrator is always wired
		pipe, err := newPipeline(true)
		if err != nil {
			return err
		}
		s := server.NewMCPServer(
			"dataqa",
			version,
			server.WithToolCapabilities(false),
			server.WithLogging(),
		)
		mcptools.Register(s, pipe)
		slog.Debug("mcp server starting on stdio", "ai", pipe.HasAI())
		return server.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
