// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID       string
	Email        string
	Capabilities []string
	IsAdmin      bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasCapability checks if the user carries a capability.
// Admins implicitly hold every capability.
func HasCapability(ctx context.Context, capability string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	return u.HasCapability(capability)
}

// HasCapability checks a capability on the user itself.
func (u *UserContext) HasCapability(capability string) bool {
	if u.IsAdmin {
		return true
	}
	for _, c := range u.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
