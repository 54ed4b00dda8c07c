package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-budget-auth/internal/service"
	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidEmail:            http.StatusBadRequest,
	service.ErrPasswordTooShort:        http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	// a non-pending token at 2FA verification is a malformed request, not an
	// authentication failure
	service.ErrTwoFactorNotPending:    http.StatusBadRequest,
	service.ErrTwoFactorNotConfigured: http.StatusBadRequest,
	service.ErrInvalidTwoFactorCode:   http.StatusUnauthorized,

	service.ErrResetTokenInvalid:  http.StatusBadRequest,
	service.ErrGoogleTokenInvalid: http.StatusUnauthorized,

	store.ErrEmailAlreadyExists:    http.StatusConflict,
	store.ErrGoogleIDAlreadyLinked: http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// userFacingMessages overrides the sentinel text where the API contract
// promises a specific phrase.
var userFacingMessages = map[error]string{
	service.ErrInvalidEmail:       "Please provide a valid email address",
	service.ErrPasswordTooShort:   "Password must be at least 10 characters long",
	service.ErrInvalidCredentials: "Invalid credentials",
	service.ErrResetTokenInvalid:  "Token is invalid or has expired",
	store.ErrEmailAlreadyExists:   "Email already in use",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromError(err error, status int) string {
	if status == http.StatusInternalServerError {
		return http.StatusText(http.StatusInternalServerError)
	}

	for target, message := range userFacingMessages {
		if errors.Is(err, target) {
			return message
		}
	}

	for target := range errorStatusMap {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return http.StatusText(status)
}

// writeError renders the mapped JSON error body. Detail carries the internal
// error text for unexpected failures, but only in development mode.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	response := models.ErrorResponse{Message: messageFromError(err, status)}
	if status == http.StatusInternalServerError && h.environment == developmentEnvironment {
		response.Detail = err.Error()
	}

	utils.WriteJSON(w, response, status)
}
