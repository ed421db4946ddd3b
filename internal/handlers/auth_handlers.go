package handlers

import (
	"errors"
	"log"
	"net/http"

	"rentzy/internal/common"
	"rentzy/internal/models"
	"rentzy/internal/repositories"
	"rentzy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers covers registration, login, logout and token refresh.
type AuthHandlers struct {
	authSvc         services.AuthService
	verificationSvc services.VerificationService
	userRepo        repositories.UserRepository
}

func NewAuthHandlers(authSvc services.AuthService, verificationSvc services.VerificationService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authSvc:         authSvc,
		verificationSvc: verificationSvc,
		userRepo:        userRepo,
	}
}

type SendVerificationCodeRequest struct {
	Email string `json:"email"`
}

// SendVerificationCode issues a 6-digit code to the given address.
func (h *AuthHandlers) SendVerificationCode(c echo.Context) error {
	ctx := c.Request().Context()

	var req SendVerificationCodeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return common.SendValidationError(c, err.Error())
	}

	if err := h.verificationSvc.RequestCode(ctx, req.Email); err != nil {
		var delivery *services.EmailDeliveryError
		switch {
		case errors.Is(err, services.ErrTooManyCodeRequests):
			return common.SendError(c, http.StatusTooManyRequests, "Too many verification attempts. Please try again later.")
		case errors.As(err, &delivery):
			log.Printf("Email sending error: %v", err)
			return common.SendServerError(c, "Failed to send verification code. Please try again.")
		default:
			log.Printf("Verification code error: %v", err)
			return common.SendServerError(c, "Failed to send verification code. Please try again.")
		}
	}

	return common.SendData(c, http.StatusOK, "Verification code sent successfully.", map[string]interface{}{
		"expiresIn": "10 minutes",
	})
}

type RegisterRequest struct {
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Password         string      `json:"password"`
	ConfirmPassword  string      `json:"confirmPassword"`
	VerificationCode string      `json:"verificationCode"`
	Role             models.Role `json:"role"`
}

// Register creates an account once the email verification code checks out.
// The password is hashed before anything is persisted, so a hashing failure
// leaves no partial user behind.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	if err := common.ValidateName(req.Name); err != nil {
		return common.SendValidationError(c, err.Error())
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return common.SendValidationError(c, err.Error())
	}
	if err := common.ValidatePassword(req.Password); err != nil {
		return common.SendValidationError(c, err.Error())
	}
	if req.Password != req.ConfirmPassword {
		return common.SendValidationError(c, "Passwords do not match")
	}
	if err := common.ValidateVerificationCode(req.VerificationCode); err != nil {
		return common.SendValidationError(c, err.Error())
	}
	if err := common.ValidateRole(req.Role); err != nil {
		return common.SendValidationError(c, err.Error())
	}

	email := common.NormalizeEmail(req.Email)

	if err := h.verificationSvc.VerifyCode(ctx, email, req.VerificationCode); err != nil {
		var mismatch *services.CodeMismatchError
		switch {
		case errors.Is(err, services.ErrCodeNotFound):
			return common.SendValidationError(c, "No verification code found. Please request a new one.")
		case errors.As(err, &mismatch):
			return common.SendValidationError(c, mismatch.Error())
		case errors.Is(err, services.ErrTooManyCodeAttempts):
			return common.SendError(c, http.StatusTooManyRequests, "Too many invalid attempts. Please request a new verification code.")
		case errors.Is(err, services.ErrCodeExpired):
			return common.SendValidationError(c, "Verification code has expired. Please request a new one.")
		default:
			log.Printf("Verification check error: %v", err)
			return common.SendServerError(c, "Registration failed. Please try again.")
		}
	}

	existing, err := h.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Printf("Registration lookup error: %v", err)
		return common.SendServerError(c, "Registration failed. Please try again.")
	}
	if existing != nil {
		return common.SendError(c, http.StatusConflict, "An account with this email already exists.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), services.PasswordHashCost)
	if err != nil {
		log.Printf("Password hashing error: %v", err)
		return common.SendServerError(c, "Registration failed. Please try again.")
	}

	user := &models.User{
		ID:              uuid.New(),
		Name:            req.Name,
		Email:           email,
		PasswordHash:    string(hashedPassword),
		Role:            req.Role,
		IsEmailVerified: true,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return common.SendError(c, http.StatusConflict, "An account with this email already exists.")
		}
		log.Printf("Registration error: %v", err)
		return common.SendServerError(c, "Registration failed. Please try again.")
	}

	// Code is consumed only after the account exists.
	if err := h.verificationSvc.ClearCode(ctx, email); err != nil {
		log.Printf("Failed to clear verification code for %s: %v", email, err)
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user)
	if err != nil {
		log.Printf("Token generation error: %v", err)
		return common.SendServerError(c, "Registration failed. Please try again.")
	}

	return common.SendData(c, http.StatusCreated, "Registration successful", map[string]interface{}{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
		"user":         tokens.User,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login deliberately returns the same message for an unknown email and a
// wrong password to avoid account enumeration.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "Email and password are required")
	}

	user, err := h.userRepo.GetByEmail(ctx, common.NormalizeEmail(req.Email))
	if err != nil {
		log.Printf("Login lookup error: %v", err)
		return common.SendServerError(c, "Login failed. Please try again.")
	}
	if user == nil {
		return common.SendError(c, http.StatusUnauthorized, "Invalid email or password.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return common.SendError(c, http.StatusUnauthorized, "Invalid email or password.")
	}

	if err := h.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.ID, err)
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user)
	if err != nil {
		log.Printf("Token generation error: %v", err)
		return common.SendServerError(c, "Login failed. Please try again.")
	}

	return common.SendData(c, http.StatusOK, "Login successful", map[string]interface{}{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
		"user":         tokens.User,
	})
}

// Logout acknowledges the request; access tokens are self-contained so there
// is no server-side state to clear.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if _, ok := common.GetAuthUserFromContext(c.Request().Context()); !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}
	return common.SendSuccess(c, http.StatusOK, "Logged out successfully")
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is single-generation and is not reissued.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "Refresh token is required")
	}

	tokens, err := h.authSvc.ExchangeRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrRefreshInvalid) {
			return common.SendError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		}
		log.Printf("Refresh token error: %v", err)
		return common.SendServerError(c, "Token refresh failed. Please try again.")
	}

	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"accessToken": tokens.AccessToken,
		"expiresIn":   tokens.ExpiresIn,
	})
}
