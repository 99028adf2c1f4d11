package mcp

import "context"

// credentialKey is the context key for the per-request AppVector token.
type credentialKey struct{}

// WithCredential returns a new context carrying the caller's AppVector token.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFrom extracts the AppVector token from the context, or "" if absent.
func CredentialFrom(ctx context.Context) string {
	token, _ := ctx.Value(credentialKey{}).(string)
	return token
}
