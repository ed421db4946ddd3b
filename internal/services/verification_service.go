package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"rentzy/internal/caching"
	"rentzy/internal/common"
	"rentzy/internal/models"
)

const (
	verificationCodeTTL  = 10 * time.Minute
	maxVerificationTries = 3
)

var (
	ErrTooManyCodeRequests = errors.New("too many verification attempts")
	ErrCodeNotFound        = errors.New("no verification code found")
	ErrCodeExpired         = errors.New("verification code has expired")
	ErrTooManyCodeAttempts = errors.New("too many invalid attempts")
)

// CodeMismatchError reports how many attempts remain after a wrong code.
type CodeMismatchError struct {
	Remaining int
}

func (e *CodeMismatchError) Error() string {
	return fmt.Sprintf("invalid verification code, %d attempts remaining", e.Remaining)
}

// EmailDeliveryError marks a failure of the outbound email collaborator. The
// verification entry survives it so a retried request can reuse the code.
type EmailDeliveryError struct {
	Err error
}

func (e *EmailDeliveryError) Error() string {
	return fmt.Sprintf("failed to send verification email: %v", e.Err)
}

func (e *EmailDeliveryError) Unwrap() error { return e.Err }

// VerificationService owns the email-verification-code workflow backed by the
// injected TTL cache.
type VerificationService interface {
	// RequestCode generates and emails a fresh 6-digit code. The 4th request
	// against a still-live entry is rejected.
	RequestCode(ctx context.Context, email string) error
	// VerifyCode checks a submitted code without consuming the entry; the
	// caller clears it with ClearCode only after the account is persisted.
	VerifyCode(ctx context.Context, email, code string) error
	ClearCode(ctx context.Context, email string) error
}

type verificationService struct {
	cacheSvc caching.CacheService
	emailSvc EmailService
	now      func() time.Time
}

func NewVerificationService(cacheSvc caching.CacheService, emailSvc EmailService) VerificationService {
	return &verificationService{
		cacheSvc: cacheSvc,
		emailSvc: emailSvc,
		now:      time.Now,
	}
}

func (s *verificationService) RequestCode(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)

	existing, err := s.cacheSvc.GetVerification(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.Attempts >= maxVerificationTries && !existing.Expired(s.now()) {
		return ErrTooManyCodeRequests
	}

	code, err := randomCode()
	if err != nil {
		return err
	}

	attempts := 1
	if existing != nil {
		attempts = existing.Attempts + 1
	}
	entry := &models.VerificationEntry{
		Code:        code,
		Expiration:  s.now().Add(verificationCodeTTL),
		Attempts:    attempts,
		MaxAttempts: maxVerificationTries,
	}

	// Stored before dispatch: a delivery failure must not lose the code.
	if err := s.cacheSvc.SetVerification(ctx, email, entry, verificationCodeTTL); err != nil {
		return err
	}

	if err := s.emailSvc.SendVerificationCode(ctx, email, code); err != nil {
		return &EmailDeliveryError{Err: err}
	}
	return nil
}

func (s *verificationService) VerifyCode(ctx context.Context, email, code string) error {
	email = common.NormalizeEmail(email)

	stored, err := s.cacheSvc.GetVerification(ctx, email)
	if err != nil {
		return err
	}
	if stored == nil {
		return ErrCodeNotFound
	}

	// Exact match is checked before expiry, so a wrong guess against an
	// expired entry still burns an attempt.
	if stored.Code != code {
		stored.Attempts++
		if stored.Attempts >= stored.MaxAttempts {
			if err := s.cacheSvc.DeleteVerification(ctx, email); err != nil {
				return err
			}
			return ErrTooManyCodeAttempts
		}
		ttl := stored.Expiration.Sub(s.now())
		if ttl < 0 {
			ttl = 0
		}
		if err := s.cacheSvc.SetVerification(ctx, email, stored, ttl); err != nil {
			return err
		}
		return &CodeMismatchError{Remaining: stored.MaxAttempts - stored.Attempts}
	}

	if stored.Expired(s.now()) {
		if err := s.cacheSvc.DeleteVerification(ctx, email); err != nil {
			return err
		}
		return ErrCodeExpired
	}

	return nil
}

func (s *verificationService) ClearCode(ctx context.Context, email string) error {
	return s.cacheSvc.DeleteVerification(ctx, common.NormalizeEmail(email))
}

// randomCode draws a uniformly random 6-digit code from crypto/rand.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
