package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
	"github.com/go-chi/chi/v5"
)

// resetRequestedMessage is returned for every well-formed reset request,
// whether or not the account exists.
const resetRequestedMessage = "If an account with that email exists, a password reset link has been sent."

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	if err := h.services.PasswordResetService.RequestReset(ctx, req.Email); err != nil {
		log.Err(err).Msg("password reset request failed")
		h.writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: resetRequestedMessage}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token := chi.URLParam(r, "token")

	var req models.NewPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	if err := h.services.PasswordResetService.ResetPassword(ctx, token, req.Password); err != nil {
		log.Err(err).Msg("password reset failed")
		h.writeError(w, err)
		return
	}

	log.Info().Msg("password reset completed")
	utils.WriteJSON(w, models.MessageResponse{Message: "Password has been reset successfully"}, http.StatusOK)
}
