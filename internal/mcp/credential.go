package mcp

import (
	"context"
	"net/http"
	"strings"
)

const (
	bearerPrefix = "Bearer "
	tokenPrefix  = "Token "
)

// ResolveToken extracts the AppVector token from the inbound Authorization
// header. "Bearer <t>", "Token <t>" and a bare "<t>" are accepted; anything
// after the prefix is returned verbatim. Returns "" when the header is absent.
func ResolveToken(h http.Header) (token string) {
	defer func() {
		if recover() != nil {
			token = ""
		}
	}()
	if h == nil {
		return ""
	}
	auth := authorizationHeader(h)
	switch {
	case auth == "":
		return ""
	case strings.HasPrefix(auth, bearerPrefix):
		return auth[len(bearerPrefix):]
	case strings.HasPrefix(auth, tokenPrefix):
		return auth[len(tokenPrefix):]
	default:
		return auth
	}
}

// authorizationHeader looks the header up case-insensitively, including maps
// populated without canonical keys.
func authorizationHeader(h http.Header) string {
	if v := h.Get("Authorization"); v != "" {
		return v
	}
	for key, vals := range h {
		if strings.EqualFold(key, "Authorization") && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// credentialContextFunc attaches the resolved token to every MCP request context.
func credentialContextFunc(ctx context.Context, r *http.Request) context.Context {
	return WithCredential(ctx, ResolveToken(r.Header))
}

// maskToken returns a short prefix of the token that is safe to log.
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:8] + "..."
}
