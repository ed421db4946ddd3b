package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"rentzy/internal/common"
	"rentzy/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenTTL      = time.Hour
	maxResetAttempts   = 3
	resetAttemptWindow = time.Hour

	// Cost tuned so verification stays in the ~100ms range.
	PasswordHashCost = 12
)

var (
	ErrResetUserNotFound    = errors.New("user not found")
	ErrTooManyResetAttempts = errors.New("too many reset attempts")
	// ErrInvalidResetToken never distinguishes a wrong token from an expired
	// one, so a caller cannot probe token state.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// PasswordResetService owns the reset-token lifecycle: opaque single-use
// tokens with a one-hour expiry, persisted on the user record.
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	// VerifyToken reports whether a token is live and returns the account
	// email for display.
	VerifyToken(ctx context.Context, token string) (string, error)
	CompleteReset(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	userRepo    repositories.UserRepository
	emailSvc    EmailService
	frontendURL string
	now         func() time.Time
}

func NewPasswordResetService(userRepo repositories.UserRepository, emailSvc EmailService, frontendURL string) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrResetUserNotFound
	}

	now := s.now()
	if user.LastPasswordResetAttempt != nil &&
		now.Sub(*user.LastPasswordResetAttempt) < resetAttemptWindow &&
		user.PasswordResetAttempts >= maxResetAttempts {
		return ErrTooManyResetAttempts
	}

	token, err := randomResetToken()
	if err != nil {
		return err
	}

	expires := now.Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expires, user.PasswordResetAttempts+1, now); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		return &EmailDeliveryError{Err: err}
	}
	return nil
}

func (s *passwordResetService) VerifyToken(ctx context.Context, token string) (string, error) {
	user, err := s.userRepo.GetByValidResetToken(ctx, token)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidResetToken
	}
	return user.Email, nil
}

func (s *passwordResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByValidResetToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), PasswordHashCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePasswordAndClearReset(ctx, user.ID, string(hash))
}

// randomResetToken returns 256 bits of entropy, hex-encoded.
func randomResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
