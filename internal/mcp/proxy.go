package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize caps the upstream response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// UpstreamError is returned when AppVector answers with a status other than 200.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API request failed (%d): %s", e.StatusCode, e.Body)
}

// MCPProxy connects MCP tool calls to the AppVector REST API.
type MCPProxy struct {
	baseURL    string
	httpClient *http.Client
	transport  *http.Transport
	logger     *common.Logger
	now        func() time.Time
}

// NewMCPProxy creates a proxy targeting the given AppVector base URL.
// A zero timeout leaves the client without a deadline.
func NewMCPProxy(baseURL string, timeout time.Duration, logger *common.Logger) *MCPProxy {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &MCPProxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		transport: transport,
		logger:    logger,
		now:       time.Now,
	}
}

// BaseURL returns the configured upstream base URL.
func (p *MCPProxy) BaseURL() string {
	return p.baseURL
}

// SetClock replaces the clock used for default date windows.
func (p *MCPProxy) SetClock(now func() time.Time) {
	p.now = now
}

// Close releases idle keep-alive connections to the upstream.
func (p *MCPProxy) Close() {
	p.transport.CloseIdleConnections()
}

// Do sends the request with the caller's token and returns the raw body of a 200 response.
func (p *MCPProxy) Do(ctx context.Context, token string, r *UpstreamRequest) ([]byte, error) {
	target := p.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var bodyReader io.Reader
	if r.Body != nil {
		jsonData, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	p.logger.Debug().
		Str("method", r.Method).
		Str("path", r.Path).
		Str("token", maskToken(token)).
		Str("correlation_id", common.CorrelationID(ctx)).
		Msg("upstream request")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		p.logger.Error().Str("method", r.Method).Str("path", r.Path).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("upstream request failed")
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	p.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("upstream response")

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
