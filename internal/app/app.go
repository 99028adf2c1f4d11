package app

import (
	"fmt"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
	"github.com/bobmcallan/appvector-mcp/internal/config"
	"github.com/bobmcallan/appvector-mcp/internal/handlers"
	"github.com/bobmcallan/appvector-mcp/internal/mcp"
)

// catalogAdapter converts MCP catalog tools to the public tool listing.
func catalogAdapter(mcpHandler *mcp.Handler) func() []handlers.ToolSummary {
	return func() []handlers.ToolSummary {
		if mcpHandler == nil {
			return nil
		}
		catalog := mcpHandler.Catalog()
		tools := make([]handlers.ToolSummary, len(catalog))
		for i, ct := range catalog {
			summary := handlers.ToolSummary{
				Name:        ct.Name,
				Description: ct.Description,
				Method:      ct.Method,
				Path:        ct.Path,
				Required:    []string{},
				Optional:    []string{},
			}
			for _, p := range ct.Params {
				if p.Required {
					summary.Required = append(summary.Required, p.Name)
				} else {
					summary.Optional = append(summary.Optional, p.Name)
				}
			}
			tools[i] = summary
		}
		return tools
	}
}

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	// HTTP handlers
	HealthHandler         *handlers.HealthHandler
	VersionHandler        *handlers.VersionHandler
	ToolsHandler          *handlers.ToolsHandler
	UpstreamHealthHandler *handlers.UpstreamHealthHandler
	MCPHandler            *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initHandlers(); err != nil {
		return nil, err
	}

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() error {
	mcpHandler, err := mcp.NewHandler(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize MCP handler: %w", err)
	}
	a.MCPHandler = mcpHandler

	routes := a.Config.Upstream.Routes
	if routes == "" {
		routes = config.RoutesExternal
	}

	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Logger, routes, catalogAdapter(a.MCPHandler))
	a.UpstreamHealthHandler = handlers.NewUpstreamHealthHandler(a.Logger, a.Config.Upstream.BaseURL, nil)

	a.Logger.Debug().Msg("HTTP handlers initialized")
	return nil
}

// Close releases upstream connections. Safe to call more than once.
func (a *App) Close() error {
	if a.MCPHandler != nil {
		a.MCPHandler.Close()
	}
	return nil
}
