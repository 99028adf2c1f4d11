package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// missingTokenMessage is returned when the caller sent no usable Authorization header.
const missingTokenMessage = "Error: AppVector token not provided. Please add Authorization header with your token (e.g., 'Authorization: Token YOUR_TOKEN')."

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// textResult creates a successful MCP text result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

// GenericToolHandler returns a handler that validates arguments against the
// catalog entry and forwards a single request to AppVector. Every failure is
// returned as an error result, never as a protocol error.
func GenericToolHandler(p *MCPProxy, ct CatalogTool) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, correlationID := common.EnsureCorrelationID(ctx)
		logger := p.logger.WithCorrelationId(correlationID)

		token := CredentialFrom(ctx)
		if token == "" {
			logger.Warn().Str("tool", ct.Name).Msg("tool call without credential")
			return errorResult(missingTokenMessage), nil
		}

		req, err := buildUpstreamRequest(ct, r.GetArguments(), p.now())
		if err != nil {
			logger.Debug().Str("tool", ct.Name).Str("error", err.Error()).Msg("invalid tool arguments")
			return errorResult("Error: " + err.Error()), nil
		}

		body, err := p.Do(ctx, token, req)
		if err != nil {
			var upstreamErr *UpstreamError
			if errors.As(err, &upstreamErr) {
				logger.Warn().Str("tool", ct.Name).Int("status", upstreamErr.StatusCode).Msg("upstream rejected tool call")
			}
			return errorResult(fmt.Sprintf("Error: Failed to %s: %s", ct.Action, err.Error())), nil
		}

		out, err := compactJSON(body)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: Failed to %s: invalid JSON response: %s", ct.Action, err.Error())), nil
		}

		logger.Info().Str("tool", ct.Name).Int("bytes", len(out)).Msg("tool call completed")
		return textResult(out), nil
	}
}

// compactJSON decodes the upstream body and re-encodes it without
// insignificant whitespace. Numbers keep their original precision.
func compactJSON(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	if dec.More() {
		return "", errors.New("unexpected data after JSON value")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
