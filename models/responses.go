package models

// RegisterResponse is returned once, at registration time. TOTPSecret,
// QRCodeDataURL and RecoveryCodes are never retrievable again and must never
// be logged.
type RegisterResponse struct {
	Message string `json:"message"`

	// UserID is the server-assigned identifier of the new account.
	UserID int64 `json:"userId"`

	// TOTPSecret is the base32-encoded shared secret for the authenticator
	// app.
	TOTPSecret string `json:"totpSecret"`

	// QRCodeDataURL is a data: URL containing a PNG QR code that encodes
	// the provisioning URI. Empty when QR rendering failed (non-fatal).
	QRCodeDataURL string `json:"qrCodeDataURL"`

	// RecoveryCodes are the plaintext single-use backup codes. The server
	// keeps only their hashes.
	RecoveryCodes []string `json:"recoveryCodes"`
}

// LoginResponse is returned by POST /api/auth/login.
//
// When Requires2FA is true, Token is empty and TempToken carries the
// restricted pending token to be presented to /api/auth/2fa-verify.
type LoginResponse struct {
	Message     string `json:"message"`
	Requires2FA bool   `json:"requires2FA"`
	Token       string `json:"token,omitempty"`
	TempToken   string `json:"tempToken,omitempty"`
}

// TokenResponse carries a full session token.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// MessageResponse is a generic confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body returned by every endpoint.
//
// Detail is populated only in development mode for unexpected errors;
// production responses never include internal identifiers or stack detail.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// SessionInfoResponse describes the authenticated caller, as decoded from the
// bearer token by the auth middleware.
type SessionInfoResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
