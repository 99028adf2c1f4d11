package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// RegisterToolsFromCatalog registers one MCP tool per catalog entry, all
// served by the generic AppVector handler.
func RegisterToolsFromCatalog(s *server.MCPServer, p *MCPProxy, catalog []CatalogTool) int {
	for _, ct := range catalog {
		s.AddTool(BuildMCPTool(ct), GenericToolHandler(p, ct))
	}
	return len(catalog)
}
