package models

import "time"

// VerificationEntry is the cached state for one pending email verification.
// Keyed by lowercased email, never persisted; lost on restart by design.
type VerificationEntry struct {
	Code        string    `json:"code"`
	Expiration  time.Time `json:"expiration"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"maxAttempts"`
}

func (e *VerificationEntry) Expired(now time.Time) bool {
	return now.After(e.Expiration)
}
