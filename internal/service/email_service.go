package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/taskvault/taskvault-backend/internal/config"
)

// EmailSender delivers account-related mail.
type EmailSender interface {
	SendPasswordResetEmail(toEmail, toName, token string) error
}

// EmailService sends mail through SendGrid.
type EmailService struct {
	cfg *config.EmailSettings
}

// NewEmailService creates a new EmailService.
func NewEmailService(cfg *config.EmailSettings) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendPasswordResetEmail sends a password reset email to the specified user.
// Without a SendGrid API key the reset link is logged instead, which
// keeps local development working without an outbound mail account.
func (s *EmailService) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetLink := fmt.Sprintf(s.cfg.ResetURL, token)

	if s.cfg.SendGridAPIKey == "" {
		log.Info().
			Str("email", toEmail).
			Str("reset_link", resetLink).
			Msg("SendGrid not configured, logging password reset link instead")
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail(toName, toEmail)
	subject := "Password Reset Request"
	plainTextContent := fmt.Sprintf("Please use the following link to reset your password: %s", resetLink)
	htmlContent := fmt.Sprintf("<strong>Please use the following link to reset your password:</strong> <a href=\"%s\">Reset Password</a>", resetLink)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send password reset email")
		return err
	}

	log.Info().Int("status_code", response.StatusCode).Msg("Password reset email sent")
	return nil
}
