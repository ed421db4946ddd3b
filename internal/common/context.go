package common

import (
	"context"

	"rentzy/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const authUserKey contextKey = "auth_user"

// AuthUser is the identity decoded from a verified access token and attached
// to the request context by the auth middleware.
type AuthUser struct {
	ID              uuid.UUID
	Email           string
	Role            models.Role
	IsEmailVerified bool
}

func WithAuthUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey, user)
}

// GetAuthUserFromContext extracts the authenticated identity from the request context.
func GetAuthUserFromContext(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(authUserKey).(*AuthUser)
	return user, ok
}
