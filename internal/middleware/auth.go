package middleware

import (
	"errors"
	"net/http"
	"strings"

	"rentzy/internal/common"
	"rentzy/internal/models"
	"rentzy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Machine-readable codes for token failures; the frontend branches on these.
const (
	CodeTokenMissing            = "TOKEN_MISSING"
	CodeTokenExpired            = "TOKEN_EXPIRED"
	CodeTokenInvalid            = "TOKEN_INVALID"
	CodeTokenVerificationFailed = "TOKEN_VERIFICATION_FAILED"
)

// Authenticate verifies the bearer token and attaches the decoded identity to
// the request context. Expired tokens and bad signatures get distinct codes.
func Authenticate(authSvc services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.SendTokenError(c, http.StatusUnauthorized, "Access token required", CodeTokenMissing)
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				return common.SendTokenError(c, http.StatusUnauthorized, "Access token required", CodeTokenMissing)
			}

			claims, err := authSvc.ValidateAccessToken(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrTokenExpired):
					return common.SendTokenError(c, http.StatusUnauthorized, "Token has expired", CodeTokenExpired)
				case errors.Is(err, services.ErrTokenInvalid):
					return common.SendTokenError(c, http.StatusForbidden, "Invalid token", CodeTokenInvalid)
				default:
					return common.SendTokenError(c, http.StatusForbidden, "Token verification failed", CodeTokenVerificationFailed)
				}
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return common.SendTokenError(c, http.StatusForbidden, "Token verification failed", CodeTokenVerificationFailed)
			}

			authUser := &common.AuthUser{
				ID:              userID,
				Email:           claims.Email,
				Role:            models.Role(claims.Role),
				IsEmailVerified: claims.IsEmailVerified,
			}
			ctx := common.WithAuthUser(c.Request().Context(), authUser)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRoles gates a route to an allow-list of roles. An empty list admits
// any authenticated user.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := common.GetAuthUserFromContext(c.Request().Context())
			if !ok {
				return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
			}

			if len(roles) > 0 {
				allowed := false
				for _, role := range roles {
					if user.Role == role {
						allowed = true
						break
					}
				}
				if !allowed {
					return common.SendError(c, http.StatusForbidden, "Insufficient permissions")
				}
			}

			return next(c)
		}
	}
}
