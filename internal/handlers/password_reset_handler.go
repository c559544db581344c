package handlers

import (
	"net/http"

	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/models"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// PasswordResetHandler handles the credential-recovery routes.
type PasswordResetHandler struct {
	authService AuthServiceInterface
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(authService AuthServiceInterface) *PasswordResetHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &PasswordResetHandler{
		authService: authService,
	}
}

// ForgotPassword handles the request to initiate a password reset.
// The response is identical whether or not the email has an account, so
// the endpoint cannot be used to enumerate registered addresses.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": constants.MsgPasswordResetSent,
	})
}

// VerifyToken reports whether a reset token is still usable, letting a
// reset form reject a stale link before asking for a new password.
func (h *PasswordResetHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.BadRequest(w, "Token is required", nil)
		return
	}

	if err := h.authService.VerifyResetToken(r.Context(), token); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// ResetPassword handles the request to reset a password using a token.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset successfully",
	})
}
