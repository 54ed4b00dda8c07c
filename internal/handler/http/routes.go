package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/2fa-verify", h.verifyTwoFactor)
		r.Post("/api/auth/request-password-reset", h.requestPasswordReset)
		r.Post("/api/auth/reset-password/{token}", h.resetPassword)
		r.Post("/api/auth/google", h.googleSignIn)
		r.Get("/api/version", h.getServerVersion)
	})

	// routes requiring a full (non-pending) session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/auth/me", h.sessionInfo)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
