package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	registration, err := h.services.AuthService.Register(ctx, req.Email, req.Password)
	if err != nil {
		log.Err(err).Msg("user registration failed")
		h.writeError(w, err)
		return
	}

	log.Info().Int64("user_id", registration.User.UserID).Msg("user registered")

	utils.WriteJSON(w, models.RegisterResponse{
		Message:       "User registered successfully",
		UserID:        registration.User.UserID,
		TOTPSecret:    registration.TOTPSecret,
		QRCodeDataURL: registration.QRCodeDataURL,
		RecoveryCodes: registration.RecoveryCodes,
	}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	result, err := h.services.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Err(err).Msg("login failed")
		h.writeError(w, err)
		return
	}

	if result.Requires2FA {
		log.Debug().Int64("user_id", result.Token.Claims.UserID).Msg("password accepted, awaiting 2FA")
		utils.WriteJSON(w, models.LoginResponse{
			Message:     "2FA required",
			Requires2FA: true,
			TempToken:   result.Token.SignedString,
		}, http.StatusOK)
		return
	}

	log.Debug().Int64("user_id", result.Token.Claims.UserID).Msg("user successfully logged in")
	utils.WriteJSON(w, models.LoginResponse{
		Message: "Logged in successfully",
		Token:   result.Token.SignedString,
	}, http.StatusOK)
}

func (h *Handler) verifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.TwoFactorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.VerifyTwoFactor(ctx, req)
	if err != nil {
		log.Err(err).Msg("2FA verification failed")
		h.writeError(w, err)
		return
	}

	log.Debug().Int64("user_id", token.Claims.UserID).Msg("2FA verification successful")
	utils.WriteJSON(w, models.TokenResponse{
		Message: "2FA verification successful",
		Token:   token.SignedString,
	}, http.StatusOK)
}

// sessionInfo echoes the authenticated caller's identity. It demonstrates the
// protected-resource contract: the auth middleware has already rejected
// pending and invalid tokens by the time this handler runs.
func (h *Handler) sessionInfo(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, models.SessionInfoResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, http.StatusOK)
}
