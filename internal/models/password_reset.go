package models

import (
	"time"
)

// PasswordResetToken represents a single-use credential-recovery token.
// A token is valid iff it is unused and unexpired; once consumed it is
// permanently invalid regardless of expiry.
type PasswordResetToken struct {
	ID        int64     `json:"id" db:"token_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsValid reports whether the token can still be consumed at the given time.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the structure for resetting a password with a token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
