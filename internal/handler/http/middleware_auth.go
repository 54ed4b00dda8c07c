package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it via [service.AuthService.ParseToken], and — on success — stores
// the decoded claims in the request context under [utils.SessionCtxKey]
// before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the following cases:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header value cannot be parsed as a bearer token
//     ([ErrInvalidAuthorizationHeader] or [ErrEmptyToken]).
//   - The token has expired, carries a bad signature, or is malformed.
//   - The token is a pending 2FA token. A pending token proves only that the
//     password step succeeded; it must never unlock protected resources.
//
// Expired, forged and pending tokens all produce the same 401 body so callers
// cannot distinguish the rejection reason.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			writeUnauthorized(w)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			writeUnauthorized(w)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			writeUnauthorized(w)
			return
		}

		if token.IsPending() {
			log.Warn().Int64("user_id", token.Claims.UserID).Msg("pending 2FA token presented to protected resource")
			writeUnauthorized(w)
			return
		}

		// Store the decoded claims in the context so downstream handlers can
		// identify the caller without re-parsing the token.
		ctx = context.WithValue(ctx, utils.SessionCtxKey, token.Claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// restrictTo returns a middleware that allows only the listed roles past.
// It must be mounted after auth, which populates the session claims.
func (h *Handler) restrictTo(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			claims, ok := utils.GetSessionFromContext(r.Context())
			if !ok {
				writeUnauthorized(w)
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn().Int64("user_id", claims.UserID).Str("role", claims.Role).Msg("access denied for role")
			utils.WriteJSON(w, models.ErrorResponse{Message: "You do not have permission to perform this action"}, http.StatusForbidden)
		})
	}
}

// writeUnauthorized renders the single 401 body shared by every rejection
// path, keeping the reason indistinguishable to the caller.
func writeUnauthorized(w http.ResponseWriter) {
	utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
}
