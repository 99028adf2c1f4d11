//go:build integration

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startEchoUpstream runs httpbin, whose /anything endpoint echoes the request back.
func startEchoUpstream(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	ctr, err := testcontainers.Run(ctx, "kennethreitz/httpbin:latest",
		testcontainers.WithExposedPorts("80/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/get").WithPort("80/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start httpbin: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cleanupCancel()
		ctr.Terminate(cleanupCtx)
	})

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "80/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("http://%s:%s/anything", host, port.Port())
}

type echoedRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Args    map[string]any    `json:"args"`
	Headers map[string]string `json:"headers"`
	JSON    map[string]any    `json:"json"`
}

func decodeEcho(t *testing.T, text string) echoedRequest {
	t.Helper()
	var echo echoedRequest
	if err := json.Unmarshal([]byte(text), &echo); err != nil {
		t.Fatalf("expected httpbin echo, got %q: %v", text, err)
	}
	return echo
}

func TestIntegration_AndroidMetadataAgainstEchoUpstream(t *testing.T) {
	h, err := NewHandler(testConfig(startEchoUpstream(t)), testLogger())
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}

	result := callTool(t, h.MCPServer(), testToken, "appvector_android_metadata", map[string]interface{}{
		"app": "com.spotify.music",
	})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}

	echo := decodeEcho(t, resultText(t, result))
	if echo.Method != "GET" {
		t.Errorf("expected GET, got %s", echo.Method)
	}
	if echo.Headers["Authorization"] != "Token "+testToken {
		t.Errorf("unexpected Authorization: %q", echo.Headers["Authorization"])
	}
	want := map[string]string{"app": "com.spotify.music", "country": "in", "language": "en", "data": "title"}
	for key, val := range want {
		if echo.Args[key] != val {
			t.Errorf("arg %s: expected %q, got %v", key, val, echo.Args[key])
		}
	}
	start, end := DateWindow(time.Now())
	if echo.Args["start_date"] != start || echo.Args["end_date"] != end {
		t.Errorf("expected window %s..%s, got %v..%v", start, end, echo.Args["start_date"], echo.Args["end_date"])
	}
}

func TestIntegration_KeywordResearchPostsJSONBody(t *testing.T) {
	h, err := NewHandler(testConfig(startEchoUpstream(t)), testLogger())
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}

	result := callTool(t, h.MCPServer(), testToken, "appvector_keyword_research", map[string]interface{}{
		"keywords": []string{"fitness", "workout"},
		"platform": "ios",
	})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}

	echo := decodeEcho(t, resultText(t, result))
	if echo.Method != "POST" {
		t.Errorf("expected POST, got %s", echo.Method)
	}
	keywords, _ := echo.JSON["keywords"].([]any)
	if len(keywords) != 2 {
		t.Errorf("expected two keywords in body, got %v", echo.JSON["keywords"])
	}
	if echo.JSON["platform"] != "ios" {
		t.Errorf("expected platform ios in body, got %v", echo.JSON["platform"])
	}
}
