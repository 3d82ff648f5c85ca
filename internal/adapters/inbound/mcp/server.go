package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewAllyMCPServer creates a new MCP server with all ally tools and
// resources registered. The projectPath is the root directory of the
// project to audit.
func NewAllyMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"ally",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
