package auth

import (
	"context"
)

// --- Context Helper Functions ---

// GetUsernameFromContext retrieves the authenticated username from the
// request context. Returns the username and true if found, otherwise
// an empty string and false.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// WithUsername returns a copy of ctx carrying the authenticated username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}
