package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unrealkit/uecontext/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Starts the Model Context Protocol server. The server communicates over
stdio using JSON-RPC; all logging goes to stderr.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "uecontext": {
        "command": "/path/to/uecontext",
        "args": ["serve"]
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	logger.Info("uecontext starting", "version", version, "build_time", buildTime)

	srv, err := mcp.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping")
		return nil
	case err := <-errChan:
		return err
	}
}
