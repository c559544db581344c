package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskvault/taskvault-backend/internal/models"
)

func TestPasswordResetToken_IsValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token models.PasswordResetToken
		valid bool
	}{
		{
			name: "unused and unexpired",
			token: models.PasswordResetToken{
				ExpiresAt: now.Add(time.Hour),
				Used:      false,
			},
			valid: true,
		},
		{
			name: "already used",
			token: models.PasswordResetToken{
				ExpiresAt: now.Add(time.Hour),
				Used:      true,
			},
			valid: false,
		},
		{
			name: "expired",
			token: models.PasswordResetToken{
				ExpiresAt: now.Add(-time.Hour),
				Used:      false,
			},
			valid: false,
		},
		{
			name: "expires exactly now",
			token: models.PasswordResetToken{
				ExpiresAt: now,
				Used:      false,
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.token.IsValid(now))
		})
	}
}
