package handlers

import (
	"context"
	"net/http"
	"time"

	common "github.com/bobmcallan/appvector-mcp/internal/common"
)

// UpstreamHealthHandler reports whether the AppVector API is reachable.
// Any HTTP answer below 500 counts as reachable; the probe carries no token.
type UpstreamHealthHandler struct {
	logger *common.Logger
	apiURL string
	client *http.Client
}

// NewUpstreamHealthHandler creates a new upstream health handler.
func NewUpstreamHealthHandler(logger *common.Logger, apiURL string, client *http.Client) *UpstreamHealthHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &UpstreamHealthHandler{logger: logger, apiURL: apiURL, client: client}
}

// ServeHTTP handles GET /api/upstream-health.
func (h *UpstreamHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", h.apiURL+"/", nil)
	if err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn().Str("api_url", h.apiURL).Str("error", err.Error()).Msg("upstream health probe failed")
		}
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusInternalServerError {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"latency_ms": time.Since(start).Milliseconds(),
		})
		return
	}

	WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
}
