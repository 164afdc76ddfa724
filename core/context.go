package core

import "context"

// Context keys for analysis options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	runUUIDKey        contextKey = "runUUID"
)

// WithSuppressHeader marks the context so analysis headers are not printed.
// The MCP server uses it to keep stdio clean for the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withRunUUID attaches the UUID of the current analysis run
func withRunUUID(ctx context.Context, runUUID string) context.Context {
	return context.WithValue(ctx, runUUIDKey, runUUID)
}

// getRunUUID returns the UUID of the current analysis run, if any
func getRunUUID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(runUUIDKey).(string)
	return val, ok && val != ""
}
