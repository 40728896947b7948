package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmbridge/internal/adapters/driving/mcp"
	"github.com/custodia-labs/crmbridge/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  crmbridge mcp serve

  # HTTP mode
  crmbridge mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	// The credential_status tool needs the identity database; task
	// creation works without it, so a failed dial only narrows the tool
	// set.
	if _, _, disconnect, err := connectIdentity(cmd.Context()); err != nil {
		logger.Warn("identity store unavailable, credential_status tool disabled: %v", err)
	} else {
		defer disconnect()
	}

	ports := &mcp.Ports{
		Task:       taskService,
		Credential: credentialService,
	}

	server, err := mcp.NewServer(ports)
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
