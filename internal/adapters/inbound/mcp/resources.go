package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/allyaudit/ally/internal/adapters/outbound/store"
	"github.com/allyaudit/ally/internal/domain/kb"
)

// registerResources registers all ally MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	// 1. ally://report - last scan report
	s.AddResource(
		mcplib.NewResource(
			"ally://report",
			"Accessibility Report",
			mcplib.WithResourceDescription("Report from the last accessibility scan"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(projectPath),
	)

	// 2. ally://rules - knowledge base index
	s.AddResource(
		mcplib.NewResource(
			"ally://rules",
			"Rule Knowledge Base",
			mcplib.WithResourceDescription("Plain-language explanations for known accessibility rules"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(),
	)
}

func handleReportResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		report, err := store.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading report: %w", err)
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "ally://report",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleRulesResource() server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries := make([]kb.Entry, 0, len(kb.IDs()))
		for _, id := range kb.IDs() {
			if e, ok := kb.Lookup(id); ok {
				entries = append(entries, e)
			}
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling rules: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "ally://rules",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
