package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taskvault/taskvault-backend/internal/auth"
	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/models"
	"github.com/taskvault/taskvault-backend/internal/repository"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// AuthService handles account registration, credential verification and
// password recovery.
type AuthService struct {
	userRepo    repository.UserRepository
	resetRepo   repository.PasswordResetRepository
	jwtService  *auth.JWTService
	passwordCfg *auth.PasswordConfig
	email       EmailSender
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	jwtService *auth.JWTService,
	passwordCfg *auth.PasswordConfig,
	email EmailSender,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		jwtService:  jwtService,
		passwordCfg: passwordCfg,
		email:       email,
	}
}

// RegisterUser creates a new account
func (s *AuthService) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
	// Check if username already exists
	existsUsername, err := s.userRepo.ExistsByUsername(ctx, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if existsUsername {
		return nil, utils.NewDuplicateError("User", "username", reg.Username)
	}

	// Check if email already exists
	existsEmail, err := s.userRepo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existsEmail {
		return nil, utils.NewDuplicateError("User", "email", reg.Email)
	}

	// Hash the password
	passwordHash, salt, err := auth.HashPassword(reg.Password, s.passwordCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create the user
	user := models.NewUser(reg.Username, reg.Email)
	user.PasswordHash = passwordHash
	user.Salt = salt

	// Save the user to the database. The unique indexes still back up
	// the existence checks above under concurrent registration.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	utils.LogAuth("register_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), nil
}

// AuthenticateUser verifies a credential pair and returns the account
// with a signed access token. The caller cannot tell whether the
// identifier or the password was wrong.
func (s *AuthService) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error) {
	// Find the user by username or email in one lookup
	user, err := s.userRepo.GetByIdentifier(ctx, creds.Identifier)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("login_failed", "0", creds.Identifier, false, "user not found")
			return nil, "", utils.NewInvalidCredentialsError()
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	// Verify the password
	match, err := auth.VerifyPassword(creds.Password, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}

	if !match {
		utils.LogAuth("login_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "invalid password")
		return nil, "", utils.NewInvalidCredentialsError()
	}

	// Generate the access token
	accessToken, _, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	utils.LogAuth("login_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), accessToken, nil
}

// RequestPasswordReset issues a reset token for the account behind the
// given email and mails it out. An unknown email is not an error: the
// caller gets the same outcome either way, so the operation cannot be
// used to probe which addresses have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			log.Info().Str("email", email).Msg("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	// Generate an opaque URL-safe token
	tokenValue, err := auth.GenerateResetToken(constants.PasswordResetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := time.Now()
	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     tokenValue,
		ExpiresAt: now.Add(constants.PasswordResetTokenValidity),
		Used:      false,
		CreatedAt: now,
	}

	if err := s.resetRepo.Create(ctx, token); err != nil {
		return err
	}

	if err := s.email.SendPasswordResetEmail(user.Email, user.Username, tokenValue); err != nil {
		// The token is already stored and usable; delivery failure is
		// logged but not surfaced to the requester.
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to deliver password reset email")
	}

	utils.LogAuth("password_reset_requested", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return nil
}

// VerifyResetToken checks that a reset token is known, unused and
// unexpired without consuming it.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	_, err := s.resetRepo.GetValid(ctx, token, time.Now())
	return err
}

// ResetPassword redeems a reset token and installs a new password for
// the owning account. The token is spent even if the new password
// equals the old one; an unusable token leaves the account untouched.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	passwordHash, salt, err := auth.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	consumed, err := s.resetRepo.Consume(ctx, token, passwordHash, salt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	if !consumed {
		utils.LogAuth("password_reset_failed", "0", "", false, "invalid or expired token")
		return utils.NewInvalidTokenError()
	}

	utils.LogAuth("password_reset_success", "0", "", true, "")

	return nil
}

// CleanupExpiredResetTokens removes reset tokens that have expired or
// were already redeemed. It is intended to be run periodically.
func (s *AuthService) CleanupExpiredResetTokens(ctx context.Context) (int64, error) {
	return s.resetRepo.DeleteExpired(ctx, time.Now())
}
