package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"rentzy/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	codePattern  = regexp.MustCompile(`^[0-9]{6}$`)
)

// NormalizeEmail lowercases and trims an address; all lookups and cache keys
// use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email too long")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("valid email is required")
	}
	return nil
}

// ValidatePassword enforces the hardened policy: 8-128 chars with at least one
// lowercase, one uppercase, one digit and one special character.
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return fmt.Errorf("password must be between 8 and 128 characters")
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return fmt.Errorf("password must contain at least one lowercase letter, one uppercase letter, one number, and one special character")
	}
	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 50 {
		return fmt.Errorf("name must be between 2 and 50 characters")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("name can only contain letters and spaces")
	}
	return nil
}

func ValidateVerificationCode(code string) error {
	if !codePattern.MatchString(code) {
		return fmt.Errorf("verification code must be 6 digits")
	}
	return nil
}

func ValidateRole(role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("role must be tenant or homeowner")
	}
	return nil
}
