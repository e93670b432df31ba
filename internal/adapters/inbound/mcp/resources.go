package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zzptax/zzptax/internal/application"
)

const tablesURI = "zzptax://tables"

// registerResources registers the tax-table resources on the given server.
func registerResources(s *server.MCPServer, svc *application.CalcService) {
	// 1. zzptax://tables - every configured year
	s.AddResource(
		mcplib.NewResource(
			tablesURI,
			"Tax Tables",
			mcplib.WithResourceDescription("Income-tax brackets, social contribution and mileage parameters for every configured year"),
			mcplib.WithMIMEType("application/json"),
		),
		handleTablesResource(svc),
	)

	// 2. zzptax://tables/{year} - a single year (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			tablesURI+"/{year}",
			"Tax Table",
			mcplib.WithTemplateDescription("Tax parameters for one year"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleYearResource(svc),
	)
}

func handleTablesResource(svc *application.CalcService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonContents(tablesURI, svc.Tables())
	}
}

func handleYearResource(svc *application.CalcService) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		raw := templateArg(request.Params.Arguments, "year")
		if raw == "" {
			raw = strings.TrimPrefix(request.Params.URI, tablesURI+"/")
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("year must be a number, got %q", raw)
		}

		table, err := svc.Table(year)
		if err != nil {
			return nil, err
		}
		return jsonContents(request.Params.URI, table)
	}
}

// templateArg reads a variable filled in by URI template matching, which
// may arrive as a string or a single-element list.
func templateArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
