package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuxway/knowledge-rag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can call the
retrieve tool and read the sources and store resources.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve over HTTP instead.

Examples:
  # Stdio mode (default)
  knowledge mcp serve

  # HTTP mode
  knowledge mcp serve --port 8081

Assistant configuration:
  {
    "mcpServers": {
      "knowledge": {
        "command": "/path/to/knowledge",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func mcpPorts(svc *Services) *mcp.Ports {
	return &mcp.Ports{
		Retrieval: svc.Retrieval,
		Status:    svc.Status,
		Sources:   svc.Sources,
	}
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	svc, err := loadServices()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(mcpPorts(svc))
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
