package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
)

func (h *Handler) googleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.GoogleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	token, err := h.services.IdentityLinkingService.GoogleSignIn(ctx, req.IDToken)
	if err != nil {
		log.Err(err).Msg("google sign-in failed")
		h.writeError(w, err)
		return
	}

	log.Debug().Int64("user_id", token.Claims.UserID).Msg("google sign-in successful")
	utils.WriteJSON(w, models.TokenResponse{
		Message: "Logged in successfully",
		Token:   token.SignedString,
	}, http.StatusOK)
}
