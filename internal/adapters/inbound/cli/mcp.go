package cli

import (
	mcpadapter "github.com/zzptax/zzptax/internal/adapters/inbound/mcp"
	"github.com/zzptax/zzptax/internal/logger"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the zzptax MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start zzptax MCP server (stdio)",
		Long:  "Start the zzptax MCP server using stdio transport. This lets AI assistants validate IBANs, compute BTW and income tax, and read the tax tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			// stdout carries the protocol, so logs go to stderr.
			log := logger.New(logLevel, cmd.ErrOrStderr())
			s := mcpadapter.NewZZPTaxMCPServer(svc, version, log)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level for stderr output")

	return cmd
}
