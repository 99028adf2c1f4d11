package mcp

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// minimalArgs satisfies every required parameter of the named tool.
func minimalArgs(name string) map[string]interface{} {
	switch name {
	case "appvector_keyword_research":
		return map[string]interface{}{"keywords": []string{"fitness"}}
	case "appvector_apple_keyword_rank", "appvector_android_keyword_rank":
		return map[string]interface{}{"app": "com.spotify.music", "keywords": "music"}
	case "appvector_user_jobs":
		return map[string]interface{}{}
	case "appvector_custom_store_listings", "appvector_localization_performance_data":
		return map[string]interface{}{"app": "com.a", "date_from": "2026-01-01", "date_to": "2026-01-31"}
	case "appvector_csl_base_reports":
		return map[string]interface{}{"app": "com.a", "date_from": "2026-01-01", "date_to": "2026-01-31", "search_term": []string{"a"}}
	case "appvector_csl_search_terms":
		return map[string]interface{}{"app": "com.a", "date_from": "2026-01-01", "date_to": "2026-01-31", "csl_id": []string{"1"}}
	case "appvector_keyword_volume":
		return map[string]interface{}{"country": "us", "language": "en", "keywords": []string{"fitness"}}
	case "appvector_keyword_ranks":
		return map[string]interface{}{"job_id": 12345, "country": "us", "language": "en", "keywords": []string{"fitness"}}
	case "appvector_image_difference":
		return map[string]interface{}{"app_id": "com.whatsapp", "competitor_app_id": "com.spotify.music", "country": "us", "platform": "android", "comparison_type": "icon"}
	case "appvector_keyword_opportunity":
		return map[string]interface{}{"app": "com.whatsapp", "start_date": "2025-01-01", "end_date": "2025-01-31"}
	case "appvector_search_apps_android", "appvector_search_apps_apple":
		return map[string]interface{}{"keyword": "music"}
	default:
		return map[string]interface{}{"app": "com.spotify.music"}
	}
}

func TestGenericToolHandler_MissingTokenMakesNoUpstreamCall(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{}`)
	s := newTestMCPServer(t, up.URL)

	for _, ct := range AppVectorCatalog() {
		t.Run(ct.Name, func(t *testing.T) {
			result := callTool(t, s, "", ct.Name, minimalArgs(ct.Name))
			if !result.IsError {
				t.Error("expected error result")
			}
			if got := resultText(t, result); got != missingTokenMessage {
				t.Errorf("expected missing-token message, got %q", got)
			}
		})
	}

	if up.callCount() != 0 {
		t.Errorf("expected zero upstream calls, got %d", up.callCount())
	}
}

func TestGenericToolHandler_NoCredentialInContext(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{}`)
	s := newTestMCPServer(t, up.URL)

	result := callToolCtx(t, t.Context(), s, "appvector_user_jobs", nil)
	if got := resultText(t, result); got != missingTokenMessage {
		t.Errorf("expected missing-token message, got %q", got)
	}
	if up.callCount() != 0 {
		t.Errorf("expected zero upstream calls, got %d", up.callCount())
	}
}

func TestGenericToolHandler_EveryToolSucceeds(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{"ok": true}`)
	s := newTestMCPServer(t, up.URL)

	for _, ct := range AppVectorCatalog() {
		t.Run(ct.Name, func(t *testing.T) {
			result := callTool(t, s, testToken, ct.Name, minimalArgs(ct.Name))
			if result.IsError {
				t.Fatalf("unexpected error: %s", resultText(t, result))
			}
			if got := resultText(t, result); got != `{"ok":true}` {
				t.Errorf("unexpected text: %s", got)
			}
			call := up.lastCall(t)
			if call.Method != ct.Method {
				t.Errorf("expected %s, got %s", ct.Method, call.Method)
			}
			if got := call.Header.Get("Authorization"); got != "Token "+testToken {
				t.Errorf("unexpected authorization header: %q", got)
			}
		})
	}

	if up.callCount() != len(AppVectorCatalog()) {
		t.Errorf("expected exactly one upstream call per tool, got %d", up.callCount())
	}
}

func TestGenericToolHandler_EmptyListMakesNoUpstreamCall(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{}`)
	s := newTestMCPServer(t, up.URL)

	result := callTool(t, s, testToken, "appvector_keyword_research", map[string]interface{}{
		"keywords": []string{},
	})
	if !result.IsError {
		t.Error("expected error result")
	}
	if got := resultText(t, result); got != "Error: At least one keyword is required" {
		t.Errorf("unexpected text: %q", got)
	}
	if up.callCount() != 0 {
		t.Errorf("expected zero upstream calls, got %d", up.callCount())
	}
}

func TestGenericToolHandler_RoundTrip(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{"rank": 7}`)
	s := newTestMCPServer(t, up.URL)

	result := callTool(t, s, testToken, "appvector_apple_rank", map[string]interface{}{"app": "1386412985"})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("expected JSON text, got %q: %v", text, err)
	}
	if decoded["rank"] != float64(7) || len(decoded) != 1 {
		t.Errorf("expected {\"rank\": 7}, got %v", decoded)
	}
	if text != `{"rank":7}` {
		t.Errorf("expected compact JSON, got %q", text)
	}
}

func TestGenericToolHandler_UpstreamFailure(t *testing.T) {
	up := newFakeUpstream(t, http.StatusNotFound, `"not found"`)
	s := newTestMCPServer(t, up.URL)

	result := callTool(t, s, testToken, "appvector_android_metadata", map[string]interface{}{"app": "com.spotify.music"})
	if !result.IsError {
		t.Error("expected error result")
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Error:") {
		t.Errorf("expected Error: prefix, got %q", text)
	}
	if !strings.Contains(text, "404") || !strings.Contains(text, "not found") {
		t.Errorf("expected status and body in message, got %q", text)
	}
	want := `Error: Failed to fetch Android metadata: API request failed (404): "not found"`
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestGenericToolHandler_TransportFailure(t *testing.T) {
	s := newTestMCPServer(t, "http://127.0.0.1:1")

	result := callTool(t, s, testToken, "appvector_search_apps_apple", map[string]interface{}{"keyword": "music"})
	if !result.IsError {
		t.Error("expected error result")
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Error: Failed to search Apple apps: server request failed") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestGenericToolHandler_InvalidJSONResponse(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `<html>oops</html>`)
	s := newTestMCPServer(t, up.URL)

	result := callTool(t, s, testToken, "appvector_user_jobs", nil)
	if !result.IsError {
		t.Error("expected error result")
	}
	if text := resultText(t, result); !strings.HasPrefix(text, "Error: Failed to fetch user jobs: invalid JSON response") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestGenericToolHandler_AndroidMetadataScenario(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{"data": []}`)
	s := newTestMCPServer(t, up.URL)

	result := callTool(t, s, testToken, "appvector_android_metadata", map[string]interface{}{
		"app": "com.spotify.music",
	})
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}

	call := up.lastCall(t)
	if call.Path != "/metadata/android/" {
		t.Errorf("unexpected path: %s", call.Path)
	}
	want := map[string]string{
		"app":        "com.spotify.music",
		"country":    "in",
		"language":   "en",
		"data":       "title",
		"start_date": "2026-02-13",
		"end_date":   "2026-03-15",
	}
	for key, val := range want {
		if got := call.Query.Get(key); got != val {
			t.Errorf("query %s: expected %q, got %q", key, val, got)
		}
	}
}

func TestCompactJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"rank": 7}`, `{"rank":7}`},
		{"[1, 2,\n 3]", `[1,2,3]`},
		{`{"id": 12345678901234567890}`, `{"id":12345678901234567890}`},
		{`{"url": "https://a.b/?x=1&y=<2>"}`, `{"url":"https://a.b/?x=1&y=<2>"}`},
		{`"not found"`, `"not found"`},
		{`null`, `null`},
	}
	for _, tt := range tests {
		got, err := compactJSON([]byte(tt.in))
		if err != nil {
			t.Errorf("compactJSON(%s): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("compactJSON(%s): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestCompactJSON_Invalid(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":1} {"b":2}`, `not json`} {
		if _, err := compactJSON([]byte(in)); err == nil {
			t.Errorf("compactJSON(%q): expected error", in)
		}
	}
}

func TestGenericToolHandler_WindowRecomputedPerCall(t *testing.T) {
	up := newFakeUpstream(t, http.StatusOK, `{}`)
	proxy := NewMCPProxy(up.URL, 5*time.Second, testLogger())
	now := testNow
	proxy.SetClock(func() time.Time { return now })

	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	RegisterToolsFromCatalog(s, proxy, AppVectorCatalog())

	args := map[string]interface{}{"app": "284882215"}
	if result := callTool(t, s, testToken, "appvector_apple_reviews", args); result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	first := up.lastCall(t)

	now = testNow.AddDate(0, 0, 3)
	if result := callTool(t, s, testToken, "appvector_apple_reviews", args); result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	second := up.lastCall(t)

	if first.Query.Get("start_date") != "2026-02-13" || first.Query.Get("end_date") != "2026-03-15" {
		t.Errorf("unexpected first window: %s..%s", first.Query.Get("start_date"), first.Query.Get("end_date"))
	}
	if second.Query.Get("start_date") != "2026-02-16" || second.Query.Get("end_date") != "2026-03-18" {
		t.Errorf("expected window to move with the clock, got %s..%s", second.Query.Get("start_date"), second.Query.Get("end_date"))
	}
}
