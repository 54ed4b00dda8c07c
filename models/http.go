package models

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TwoFactorRequest is the body of POST /api/auth/2fa-verify.
//
// TOTPCode carries the 6-digit authenticator code. RecoveryCode may be
// supplied instead when the authenticator device is lost; a matched recovery
// code is consumed and cannot be used again.
type TwoFactorRequest struct {
	TempToken    string `json:"tempToken"`
	TOTPCode     string `json:"totpCode"`
	RecoveryCode string `json:"recoveryCode,omitempty"`
}

// PasswordResetRequest is the body of POST /api/auth/request-password-reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// NewPasswordRequest is the body of POST /api/auth/reset-password/{token}.
type NewPasswordRequest struct {
	Password string `json:"password"`
}

// GoogleSignInRequest is the body of POST /api/auth/google.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
}
