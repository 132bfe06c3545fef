package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/vantage/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Vantage as an MCP Server.
This allows AI agents to resolve scene transforms as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		slog.SetDefault(env.Logger)

		resolver, err := env.NewResolver()
		if err != nil {
			return err
		}
		srv := mcp.NewServer(resolver, env.Timeline)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			env.Logger.Info("Starting Vantage MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			env.Logger.Info("Starting Vantage MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(cmd.Context(), port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			env.Logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
