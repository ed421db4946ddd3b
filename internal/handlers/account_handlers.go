package handlers

import (
	"errors"
	"log"
	"net/http"

	"rentzy/internal/common"
	"rentzy/internal/repositories"
	"rentzy/internal/services"

	"github.com/labstack/echo/v4"
)

// AccountHandlers serves the /api/auth routes: persistent-login checks,
// profile management and the password-reset workflow.
type AccountHandlers struct {
	userRepo repositories.UserRepository
	resetSvc services.PasswordResetService
}

func NewAccountHandlers(userRepo repositories.UserRepository, resetSvc services.PasswordResetService) *AccountHandlers {
	return &AccountHandlers{
		userRepo: userRepo,
		resetSvc: resetSvc,
	}
}

// VerifyToken confirms a bearer token still maps to a live account.
func (h *AccountHandlers) VerifyToken(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return nil
	}
	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"user": user.Public(),
	})
}

// GetProfile returns the full profile including timestamps.
func (h *AccountHandlers) GetProfile(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return nil
	}
	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"user": user.Public(),
	})
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

func (h *AccountHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if err := common.ValidateName(req.Name); err != nil {
		return common.SendValidationError(c, err.Error())
	}

	user, err := h.userRepo.UpdateName(ctx, authUser.ID, req.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendError(c, http.StatusNotFound, "User not found")
		}
		log.Printf("Profile update error: %v", err)
		return common.SendServerError(c, "Failed to update profile")
	}

	return common.SendData(c, http.StatusOK, "Profile updated successfully", map[string]interface{}{
		"user": user.Public(),
	})
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword starts the reset workflow. Unknown emails get a 404; more
// than 3 attempts inside an hour get a 429.
func (h *AccountHandlers) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Email == "" {
		return common.SendValidationError(c, "Email is required")
	}

	if err := h.resetSvc.RequestReset(ctx, req.Email); err != nil {
		var delivery *services.EmailDeliveryError
		switch {
		case errors.Is(err, services.ErrResetUserNotFound):
			return common.SendError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrTooManyResetAttempts):
			return common.SendError(c, http.StatusTooManyRequests, "Too many reset attempts. Please try again later.")
		case errors.As(err, &delivery):
			log.Printf("Reset email error: %v", err)
			return common.SendServerError(c, "Internal server error")
		default:
			log.Printf("Forgot password error: %v", err)
			return common.SendServerError(c, "Internal server error")
		}
	}

	return common.SendSuccess(c, http.StatusOK, "Password reset email sent successfully")
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword completes the workflow. Wrong and expired tokens share one
// generic error so token state never leaks.
func (h *AccountHandlers) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.Param("token")

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Password == "" {
		return common.SendValidationError(c, "Password is required")
	}
	if err := common.ValidatePassword(req.Password); err != nil {
		return common.SendValidationError(c, err.Error())
	}

	if err := h.resetSvc.CompleteReset(ctx, token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			return common.SendValidationError(c, "Invalid or expired reset token")
		}
		log.Printf("Reset password error: %v", err)
		return common.SendServerError(c, "Internal server error")
	}

	return common.SendSuccess(c, http.StatusOK, "Password reset successful")
}

// VerifyResetToken lets the frontend validate a token before showing the form.
func (h *AccountHandlers) VerifyResetToken(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.Param("token")

	email, err := h.resetSvc.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			return common.SendValidationError(c, "Invalid or expired reset token")
		}
		log.Printf("Reset token verification error: %v", err)
		return common.SendServerError(c, "Internal server error")
	}

	return common.SendData(c, http.StatusOK, "Token is valid", map[string]interface{}{
		"email": email,
	})
}
