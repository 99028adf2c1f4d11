package mcp

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/appvector-mcp/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// versionInfo is the payload of the get_version tool.
type versionInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Build    string `json:"build"`
	Commit   string `json:"commit"`
	Upstream string `json:"upstream"`
	Routes   string `json:"routes"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get AppVector MCP server version and status. Use this to verify connectivity; no token is required."),
	)
}

// VersionToolHandler reports the server build and its upstream settings.
// It is answered locally and never calls AppVector.
func VersionToolHandler(cfg *config.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Name:     config.ServerName,
			Version:  config.GetVersion(),
			Build:    config.GetBuild(),
			Commit:   config.GetGitCommit(),
			Upstream: cfg.Upstream.BaseURL,
			Routes:   cfg.Upstream.Routes,
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
