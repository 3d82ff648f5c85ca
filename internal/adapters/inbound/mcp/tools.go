package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configloader "github.com/allyaudit/ally/internal/adapters/outbound/config"
	"github.com/allyaudit/ally/internal/adapters/outbound/engine"
	"github.com/allyaudit/ally/internal/adapters/outbound/store"
	"github.com/allyaudit/ally/internal/domain"
	"github.com/allyaudit/ally/internal/domain/fix"
	"github.com/allyaudit/ally/internal/domain/kb"
)

// registerTools registers all ally MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. ally_scan_file
	s.AddTool(
		mcplib.NewTool("ally_scan_file",
			mcplib.WithDescription("Run an accessibility scan on a single HTML file and return the violations and score as JSON"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the HTML file to scan"),
			),
		),
		handleScanFile(projectPath),
	)

	// 2. ally_report
	s.AddTool(
		mcplib.NewTool("ally_report",
			mcplib.WithDescription("Return the stored report from the last scan as JSON"),
		),
		handleReport(projectPath),
	)

	// 3. ally_explain
	s.AddTool(
		mcplib.NewTool("ally_explain",
			mcplib.WithDescription("Explain an accessibility rule: what it checks, who it affects, and how to fix it"),
			mcplib.WithString("rule",
				mcplib.Required(),
				mcplib.Description("Rule ID, e.g. image-alt or html-has-lang"),
			),
		),
		handleExplain(),
	)

	// 4. ally_fix_preview
	s.AddTool(
		mcplib.NewTool("ally_fix_preview",
			mcplib.WithDescription("Scan one HTML file and return the fixes that would be applied at the given confidence threshold, without writing anything"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the HTML file to preview fixes for"),
			),
			mcplib.WithNumber("threshold",
				mcplib.Description("Minimum pattern confidence in [0,1] (default 0.9)"),
			),
		),
		handleFixPreview(projectPath),
	)
}

// newEngine builds a scan engine from the project configuration.
func newEngine(projectPath string) (domain.ScanEngine, error) {
	cfg, err := configloader.New().Load(projectPath)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options{AxePath: cfg.AxePath}), nil
}

func handleScanFile(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		eng, err := newEngine(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if err := eng.Init(ctx); err != nil {
			return errorResult(fmt.Sprintf("engine start failed: %v", err)), nil
		}
		defer eng.Close()

		page, err := eng.ScanHTMLFile(ctx, file)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}

		type scanResult struct {
			Page  domain.PageResult `json:"page"`
			Score int               `json:"score"`
		}
		return jsonResult(scanResult{
			Page:  *page,
			Score: domain.CalculateScore([]domain.PageResult{*page}),
		})
	}
}

func handleReport(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := store.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("no report available: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleExplain() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		rule, err := request.RequireString("rule")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		entry, ok := kb.Lookup(rule)
		if !ok {
			msg := fmt.Sprintf("unknown rule %q", rule)
			if suggestions := kb.Suggest(rule); len(suggestions) > 0 {
				msg += fmt.Sprintf("; similar rules: %v", suggestions)
			}
			return errorResult(msg), nil
		}
		return jsonResult(entry)
	}
}

func handleFixPreview(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		threshold := domain.DefaultFixThreshold
		if t, ok := request.GetArguments()["threshold"].(float64); ok {
			threshold = t
		}
		if err := domain.ValidateThreshold(threshold); err != nil {
			return errorResult(err.Error()), nil
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return errorResult(fmt.Sprintf("reading file failed: %v", err)), nil
		}

		eng, err := newEngine(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if err := eng.Init(ctx); err != nil {
			return errorResult(fmt.Sprintf("engine start failed: %v", err)), nil
		}
		defer eng.Close()

		// Scan the bytes being patched, not the file path: the preview and
		// the patch then agree even if the file changes mid-call.
		page, err := eng.ScanHTMLString(ctx, string(data), file)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}

		patched, applied, skipped := fix.ApplyAll(string(data), page.Violations, threshold)

		type preview struct {
			File      string        `json:"file"`
			Threshold float64       `json:"threshold"`
			Applied   []fix.Applied `json:"applied"`
			Skipped   int           `json:"skipped"`
			Patched   string        `json:"patched,omitempty"`
		}
		p := preview{File: file, Threshold: threshold, Applied: applied, Skipped: skipped}
		if patched != string(data) {
			p.Patched = patched
		}
		return jsonResult(p)
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
