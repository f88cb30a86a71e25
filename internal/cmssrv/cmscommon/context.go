// Package cmscommon provides context management utilities shared by the
// sitesmith server packages. It carries the authenticated user identity
// through request contexts.
package cmscommon

import (
	"context"

	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// ctxKeyType represents the type for all context keys.
type ctxKeyType string

const (
	ctxUserContextKey ctxKeyType = "SitesmithUserContext"
)

// UserContext represents the authenticated user attached to a request.
type UserContext struct {
	// UserID is the unique identifier for the user
	UserID uuid.UUID
	// Email is the user's login email
	Email string
}

// WithUserContext attaches the user context to ctx.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, ctxUserContextKey, uc)
}

// GetUserContext retrieves the user context from ctx, or nil when the
// request is unauthenticated.
func GetUserContext(ctx context.Context) *UserContext {
	if uc, ok := ctx.Value(ctxUserContextKey).(*UserContext); ok {
		return uc
	}
	return nil
}
