package mcp

import (
	"fmt"
	"regexp"
	"strings"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
	"github.com/bobmcallan/appvector-mcp/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
)

// allowedMethods is the whitelist of HTTP methods for catalog tools.
// Every AppVector operation is a read or a stateless compute query.
var allowedMethods = map[string]bool{
	"GET": true, "POST": true,
}

// Parameter locations.
const (
	InQuery = "query"
	InBody  = "body"
	InPath  = "path"
)

// Parameter types.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
)

// Computed defaults.
const (
	DefaultWindowStart = "window.start"
	DefaultWindowEnd   = "window.end"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// CatalogTool describes one AppVector operation exposed as an MCP tool.
type CatalogTool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Action completes the failure message "Error: Failed to <action>: <cause>".
	Action string         `json:"action"`
	Method string         `json:"method"`
	Path   string         `json:"path"`
	Params []CatalogParam `json:"params"`
}

// CatalogParam describes one parameter for a catalog tool.
type CatalogParam struct {
	Name string `json:"name"`
	// Field is the upstream name when it differs from Name.
	Field       string   `json:"field,omitempty"`
	Type        string   `json:"type"` // string, integer, boolean, array
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	In          string   `json:"in"` // query, body, path
	Default     any      `json:"default,omitempty"`
	DefaultFrom string   `json:"default_from,omitempty"` // window.start, window.end
	Enum        []string `json:"enum,omitempty"`
	// OmitWhen names a parameter whose presence suppresses this one, default included.
	OmitWhen string `json:"omit_when,omitempty"`
	Trim     bool   `json:"trim,omitempty"`
	// Message replaces the generic text reported when a required value is missing.
	Message string `json:"message,omitempty"`
}

// wireName returns the upstream field name for the parameter.
func (p CatalogParam) wireName() string {
	if p.Field != "" {
		return p.Field
	}
	return p.Name
}

// ValidateCatalogTool validates a single catalog tool entry.
func ValidateCatalogTool(ct CatalogTool) error {
	if ct.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if ct.Method == "" {
		return fmt.Errorf("tool %q has empty method", ct.Name)
	}
	if !allowedMethods[strings.ToUpper(ct.Method)] {
		return fmt.Errorf("tool %q has unsupported method %q", ct.Name, ct.Method)
	}
	if ct.Path == "" {
		return fmt.Errorf("tool %q has empty path", ct.Name)
	}
	if !strings.HasPrefix(ct.Path, "/") {
		return fmt.Errorf("tool %q has invalid path %q (must start with /)", ct.Name, ct.Path)
	}
	if strings.Contains(ct.Path, "..") {
		return fmt.Errorf("tool %q has invalid path %q (contains ..)", ct.Name, ct.Path)
	}

	declared := make(map[string]bool, len(ct.Params))
	for _, p := range ct.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q has a parameter with empty name", ct.Name)
		}
		if declared[p.Name] {
			return fmt.Errorf("tool %q declares parameter %q twice", ct.Name, p.Name)
		}
		declared[p.Name] = true

		switch p.Type {
		case TypeString, TypeInteger, TypeBoolean, TypeArray:
		default:
			return fmt.Errorf("tool %q parameter %q has unsupported type %q", ct.Name, p.Name, p.Type)
		}
		switch p.In {
		case InQuery, InPath:
		case InBody:
			if strings.ToUpper(ct.Method) == "GET" {
				return fmt.Errorf("tool %q parameter %q cannot be sent in the body of a GET", ct.Name, p.Name)
			}
		default:
			return fmt.Errorf("tool %q parameter %q has unsupported location %q", ct.Name, p.Name, p.In)
		}
		switch p.DefaultFrom {
		case "", DefaultWindowStart, DefaultWindowEnd:
		default:
			return fmt.Errorf("tool %q parameter %q has unknown default_from %q", ct.Name, p.Name, p.DefaultFrom)
		}
	}

	for _, m := range placeholderPattern.FindAllStringSubmatch(ct.Path, -1) {
		if !declared[m[1]] {
			return fmt.Errorf("tool %q path %q references undeclared parameter %q", ct.Name, ct.Path, m[1])
		}
	}
	return nil
}

// ValidateCatalog filters and validates catalog entries, logging warnings for invalid or duplicate tools.
func ValidateCatalog(catalog []CatalogTool, logger *common.Logger) []CatalogTool {
	seen := make(map[string]bool, len(catalog))
	valid := make([]CatalogTool, 0, len(catalog))
	for _, ct := range catalog {
		if err := ValidateCatalogTool(ct); err != nil {
			logger.Warn().Str("error", err.Error()).Msg("skipping invalid catalog tool")
			continue
		}
		if seen[ct.Name] {
			logger.Warn().Str("name", ct.Name).Msg("skipping duplicate catalog tool")
			continue
		}
		seen[ct.Name] = true
		valid = append(valid, ct)
	}
	return valid
}

// keywordRoutes holds the paths that differ under the "keyword" route profile.
var keywordRoutes = map[string]string{
	"appvector_keyword_research":     "/keyword/research/",
	"appvector_apple_keyword_rank":   "/keyword/rank/apple/",
	"appvector_android_keyword_rank": "/keyword/rank/android/",
}

// ApplyRoutes returns a copy of the catalog with paths rewritten for the
// given route profile, then for per-tool overrides.
func ApplyRoutes(catalog []CatalogTool, profile string, overrides map[string]string) ([]CatalogTool, error) {
	var rewrites map[string]string
	switch profile {
	case "", config.RoutesExternal:
	case config.RoutesKeyword:
		rewrites = keywordRoutes
	default:
		return nil, fmt.Errorf("unknown route profile %q", profile)
	}

	out := make([]CatalogTool, len(catalog))
	for i, ct := range catalog {
		if path, ok := rewrites[ct.Name]; ok {
			ct.Path = path
		}
		if path, ok := overrides[ct.Name]; ok && path != "" {
			ct.Path = path
		}
		out[i] = ct
	}
	return out, nil
}

// BuildMCPTool converts a CatalogTool into an mcp.Tool with the appropriate schema.
func BuildMCPTool(ct CatalogTool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(ct.Description)}
	for _, p := range ct.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(ct.Name, opts...)
}

// buildParamOption maps a CatalogParam to the appropriate mcp-go tool option.
func buildParamOption(p CatalogParam) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case TypeInteger:
		return mcp.WithNumber(p.Name, opts...)
	case TypeBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	case TypeArray:
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(p.Name, opts...)
	default:
		if len(p.Enum) > 0 {
			opts = append(opts, mcp.Enum(p.Enum...))
		}
		if s, ok := p.Default.(string); ok && s != "" {
			opts = append(opts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Name, opts...)
	}
}
