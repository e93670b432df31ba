package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/zzptax/zzptax/internal/application"
)

// NewZZPTaxMCPServer creates an MCP server exposing the calculation engine
// to AI assistants. All tools share svc and therefore one set of tax tables.
func NewZZPTaxMCPServer(svc *application.CalcService, version string, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"zzptax",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	svc = svc.WithoutHistory()
	registerTools(s, svc, logger)
	registerResources(s, svc)

	return s
}
