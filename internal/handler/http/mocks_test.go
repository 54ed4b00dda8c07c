package http

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/service"
	"github.com/MKhiriev/go-budget-auth/models"
)

// ─────────────────────────────────────────────
// Mock: service.AuthService
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn        func(ctx context.Context, email, password string) (service.Registration, error)
	loginFn           func(ctx context.Context, email, password string) (service.LoginResult, error)
	verifyTwoFactorFn func(ctx context.Context, req models.TwoFactorRequest) (models.Token, error)
	parseTokenFn      func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password string) (service.Registration, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password)
	}
	return service.Registration{}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (service.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return service.LoginResult{}, nil
}

func (m *mockAuthService) VerifyTwoFactor(ctx context.Context, req models.TwoFactorRequest) (models.Token, error) {
	if m.verifyTwoFactorFn != nil {
		return m.verifyTwoFactorFn(ctx, req)
	}
	return models.Token{}, nil
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, tokenString)
	}
	return models.Token{}, service.ErrTokenIsExpiredOrInvalid
}

// ─────────────────────────────────────────────
// Mock: service.PasswordResetService
// ─────────────────────────────────────────────

type mockPasswordResetService struct {
	requestResetFn  func(ctx context.Context, email string) error
	resetPasswordFn func(ctx context.Context, token, newPassword string) error
}

func (m *mockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	if m.requestResetFn != nil {
		return m.requestResetFn(ctx, email)
	}
	return nil
}

func (m *mockPasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(ctx, token, newPassword)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.IdentityLinkingService
// ─────────────────────────────────────────────

type mockIdentityLinkingService struct {
	googleSignInFn func(ctx context.Context, idToken string) (models.Token, error)
}

func (m *mockIdentityLinkingService) GoogleSignIn(ctx context.Context, idToken string) (models.Token, error) {
	if m.googleSignInFn != nil {
		return m.googleSignInFn(ctx, idToken)
	}
	return models.Token{}, nil
}

// ─────────────────────────────────────────────
// Mock: service.AppInfoService
// ─────────────────────────────────────────────

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(ctx context.Context) string {
	return m.version
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler with the given service mocks. Nil mocks are
// replaced with empty defaults.
func newTestHandler(t *testing.T, auth *mockAuthService, reset *mockPasswordResetService, identity *mockIdentityLinkingService) *Handler {
	t.Helper()

	if auth == nil {
		auth = &mockAuthService{}
	}
	if reset == nil {
		reset = &mockPasswordResetService{}
	}
	if identity == nil {
		identity = &mockIdentityLinkingService{}
	}

	svcs := &service.Services{
		AuthService:            auth,
		PasswordResetService:   reset,
		IdentityLinkingService: identity,
		AppInfoService:         &mockAppInfoService{version: "test"},
	}

	return NewHandler(svcs, config.App{Environment: "production"}, logger.Nop())
}
