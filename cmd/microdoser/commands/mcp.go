// ABOUTME: MCP command starts the Model Context Protocol server on stdio
// ABOUTME: Lets LLM agents read reminders, diary and notes and request plans
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/llm"
	"github.com/harper/microdoser/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs microdoser as an MCP (Model Context Protocol) server on stdio so
LLM agents can list reminders, events, diary entries and notes, and ask
for medicine plans. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by an MCP client)
  microdoser mcp

  # Client configuration:
  # {
  #   "mcpServers": {
  #     "microdoser": {
  #       "command": "microdoser",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	runner, err := a.newRunner()
	if errors.Is(err, llm.ErrMissingAPIKey) {
		a.logger.Warn("no OpenRouter API key; recommend_medicine and add_medicine are disabled")
		runner = nil
	} else if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"microdoser",
		versionInfo.Version,
		mcpserver.WithToolCapabilities(true),
	)
	mcp.RegisterTools(server, a.store, runner, a.cfg.Language, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("MCP server starting on stdio", "db", a.store.DB().Path())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
