package mcp

import (
	"fmt"
	"net/http"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
	"github.com/bobmcallan/appvector-mcp/internal/config"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	mcpServer  *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	proxy      *MCPProxy
	logger     *common.Logger
	catalog    []CatalogTool
}

// NewHandler builds the AppVector tool set for the configured route profile
// and registers it on a stateless streamable MCP server.
func NewHandler(cfg *config.Config, logger *common.Logger) (*Handler, error) {
	catalog, err := ApplyRoutes(AppVectorCatalog(), cfg.Upstream.Routes, cfg.Upstream.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to apply upstream routes: %w", err)
	}
	validated := ValidateCatalog(catalog, logger)

	mcpSrv := mcpserver.NewMCPServer(
		config.ServerName,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	proxy := NewMCPProxy(cfg.Upstream.BaseURL, cfg.Upstream.GetTimeout(), logger)
	toolCount := RegisterToolsFromCatalog(mcpSrv, proxy, validated)
	mcpSrv.AddTool(VersionTool(), VersionToolHandler(cfg))

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
		mcpserver.WithHTTPContextFunc(credentialContextFunc),
	)

	routes := cfg.Upstream.Routes
	if routes == "" {
		routes = config.RoutesExternal
	}
	logger.Info().
		Int("tools", toolCount).
		Str("api_url", cfg.Upstream.BaseURL).
		Str("routes", routes).
		Int("path_overrides", len(cfg.Upstream.Paths)).
		Msg("MCP handler initialized")

	return &Handler{
		mcpServer:  mcpSrv,
		streamable: streamable,
		proxy:      proxy,
		logger:     logger,
		catalog:    validated,
	}, nil
}

// Catalog returns a copy of the validated tool catalog.
func (h *Handler) Catalog() []CatalogTool {
	result := make([]CatalogTool, len(h.catalog))
	copy(result, h.catalog)
	return result
}

// MCPServer exposes the underlying server for in-process message handling.
func (h *Handler) MCPServer() *mcpserver.MCPServer {
	return h.mcpServer
}

// Proxy returns the upstream client shared by all tools.
func (h *Handler) Proxy() *MCPProxy {
	return h.proxy
}

// Close releases the upstream connections held by the tool proxy.
func (h *Handler) Close() {
	h.proxy.Close()
	h.logger.Debug().Msg("MCP handler closed")
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer. The credential is
// resolved per request by the server's HTTP context function.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
