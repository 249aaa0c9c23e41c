package ctxutil

import (
	"context"
	"strings"
)

type identityKey struct{}

// Identity is the authenticated caller as resolved from the auth provider.
// It never comes from a request body.
type Identity struct {
	UserID string
	Email  string
	Plan   string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok && id != nil && strings.TrimSpace(id.UserID) != "" {
		return id
	}
	return nil
}

// UserID returns the authenticated user id or "" for anonymous callers.
func UserID(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.UserID
	}
	return ""
}
