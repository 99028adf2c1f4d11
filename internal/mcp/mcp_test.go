package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
	"github.com/bobmcallan/appvector-mcp/internal/config"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// --- Helpers ---

const testToken = "test-appvector-token"

// testNow is the fixed clock used by tool tests; its window is 2026-02-13..2026-03-15.
var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func testConfig(apiURL string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Upstream.BaseURL = apiURL
	cfg.Upstream.Timeout = "5s"
	return cfg
}

// recordedRequest is what the fake upstream saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

// fakeUpstream is an httptest AppVector that records every call.
type fakeUpstream struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []recordedRequest
	status int
	body   string
}

func newFakeUpstream(t *testing.T, status int, body string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			json.Unmarshal(raw, &rec.Body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, rec)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		w.Write([]byte(f.body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeUpstream) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeUpstream) lastCall(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("expected at least one upstream call")
	}
	return f.calls[len(f.calls)-1]
}

// newTestMCPServer registers the AppVector catalog against the given upstream with a fixed clock.
func newTestMCPServer(t *testing.T, upstreamURL string) *mcpserver.MCPServer {
	t.Helper()
	proxy := NewMCPProxy(upstreamURL, 5*time.Second, testLogger())
	proxy.SetClock(func() time.Time { return testNow })

	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	RegisterToolsFromCatalog(s, proxy, AppVectorCatalog())
	return s
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *mcpserver.MCPServer) []mcpgo.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolsResult mcpgo.ListToolsResult
	if err := json.Unmarshal(resultJSON, &toolsResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}

	return toolsResult.Tools
}

// callTool calls a tool with the given credential on the request context.
func callTool(t *testing.T, s *mcpserver.MCPServer, token, name string, args map[string]interface{}) *mcpgo.CallToolResult {
	t.Helper()
	return callToolCtx(t, WithCredential(t.Context(), token), s, name, args)
}

func callToolCtx(t *testing.T, ctx context.Context, s *mcpserver.MCPServer, name string, args map[string]interface{}) *mcpgo.CallToolResult {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	result := s.HandleMessage(ctx, msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolResult mcpgo.CallToolResult
	if err := json.Unmarshal(resultJSON, &toolResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}

	return &toolResult
}

// extractText extracts the text field from an MCP content block.
func extractText(t *testing.T, content mcpgo.Content) string {
	t.Helper()
	contentJSON, _ := json.Marshal(content)
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(contentJSON, &tc)
	return tc.Text
}

// resultText returns the text of a single-content result.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	return extractText(t, result.Content[0])
}

// findCatalogTool finds a CatalogTool by name in the catalog.
func findCatalogTool(catalog []CatalogTool, name string) *CatalogTool {
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i]
		}
	}
	return nil
}

// mustCatalogTool returns the named AppVector tool or fails the test.
func mustCatalogTool(t *testing.T, name string) CatalogTool {
	t.Helper()
	ct := findCatalogTool(AppVectorCatalog(), name)
	if ct == nil {
		t.Fatalf("expected %s in catalog", name)
	}
	return *ct
}
