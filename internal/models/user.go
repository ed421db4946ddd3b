package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. The frontend renders a different
// dashboard per role, so unknown values are rejected at the boundary instead
// of being string-compared downstream.
type Role string

const (
	RoleTenant    Role = "tenant"
	RoleHomeowner Role = "homeowner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleHomeowner:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Role            Role      `json:"role" db:"role"`
	IsEmailVerified bool      `json:"isEmailVerified" db:"is_email_verified"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	LastLogin       time.Time `json:"lastLogin" db:"last_login"`

	// Reset-token fields: token and expiry are either both set or both nil.
	// Attempts go back to 0 whenever the token is cleared.
	ResetPasswordToken       *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpires     *time.Time `json:"-" db:"reset_password_expires"`
	PasswordResetAttempts    int        `json:"-" db:"password_reset_attempts"`
	LastPasswordResetAttempt *time.Time `json:"-" db:"last_password_reset_attempt"`
}

// PublicUser is the wire shape returned to clients.
type PublicUser struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            Role       `json:"role"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
}

func (u *User) Public() *PublicUser {
	pub := &PublicUser{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
	}
	if !u.CreatedAt.IsZero() {
		t := u.CreatedAt
		pub.CreatedAt = &t
	}
	if !u.LastLogin.IsZero() {
		t := u.LastLogin
		pub.LastLogin = &t
	}
	return pub
}
