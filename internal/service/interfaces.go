package service

import (
	"context"

	"github.com/MKhiriev/go-budget-auth/models"
)

// Registration is the one-time result of a successful account registration.
// TOTPSecret, QRCodeDataURL and RecoveryCodes are shown to the user exactly
// once and are not retrievable afterwards.
type Registration struct {
	User          models.User
	TOTPSecret    string
	QRCodeDataURL string
	RecoveryCodes []string
}

// LoginResult is the outcome of a successful password check. When Requires2FA
// is true, Token is a restricted pending token that only the 2FA verification
// endpoint accepts.
type LoginResult struct {
	Requires2FA bool
	Token       models.Token
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (Registration, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	VerifyTwoFactor(ctx context.Context, req models.TwoFactorRequest) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type IdentityLinkingService interface {
	GoogleSignIn(ctx context.Context, idToken string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// GoogleIdentity is the subject resolved from a validated Google ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
}

// GoogleTokenValidator verifies a Google ID token and resolves the identity
// it asserts. Implemented by provider.GoogleOAuthProvider.
type GoogleTokenValidator interface {
	Validate(ctx context.Context, idToken string) (GoogleIdentity, error)
}
