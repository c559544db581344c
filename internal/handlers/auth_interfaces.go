package handlers

import (
	"context"

	"github.com/taskvault/taskvault-backend/internal/models"
)

// AuthServiceInterface abstracts the authentication service so handlers
// can be tested without a database.
type AuthServiceInterface interface {
	RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error)
	AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
