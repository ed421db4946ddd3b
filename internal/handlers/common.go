package handlers

import (
	"errors"
	"log"
	"net/http"

	"rentzy/internal/common"
	"rentzy/internal/models"
	"rentzy/internal/repositories"

	"github.com/labstack/echo/v4"
)

// currentUser resolves the authenticated identity to its full user record.
// On failure the error response is already written and ok is false.
func currentUser(c echo.Context, userRepo repositories.UserRepository) (*models.User, bool) {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		common.SendError(c, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}

	user, err := userRepo.GetByID(ctx, authUser.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			common.SendError(c, http.StatusNotFound, "User not found")
		} else {
			log.Printf("User fetch error: %v", err)
			common.SendServerError(c, "Failed to fetch profile")
		}
		return nil, false
	}
	return user, true
}
