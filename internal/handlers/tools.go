package handlers

import (
	"net/http"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
)

// ToolSummary is the public view of one registered MCP tool.
type ToolSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional"`
}

// ToolsHandler lists the active tool catalog together with the upstream
// paths it forwards to.
type ToolsHandler struct {
	logger  *common.Logger
	catalog func() []ToolSummary
	routes  string
}

// NewToolsHandler creates a tools handler. catalog is read on every request.
func NewToolsHandler(logger *common.Logger, routes string, catalog func() []ToolSummary) *ToolsHandler {
	return &ToolsHandler{logger: logger, catalog: catalog, routes: routes}
}

// ServeHTTP handles GET /api/tools.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	var tools []ToolSummary
	if h.catalog != nil {
		tools = h.catalog()
	}
	if tools == nil {
		tools = []ToolSummary{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"routes": h.routes,
		"count":  len(tools),
		"tools":  tools,
	})
}
