// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gcontacts/handlers"
	"github.com/harperreed/gcontacts/logger"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App) error {
	logger.Info("starting gcontacts MCP server", "version", app.Version)

	server := handlers.NewServer(app.Client(), app.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Run server on stdio transport
	return server.Run(ctx, &mcp.StdioTransport{})
}
