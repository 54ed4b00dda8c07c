package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the claim set carried by every session token issued by the
// service.
//
// A full session token carries UserID, Email and Role. A pending token —
// issued after password verification but before 2FA completion — carries
// UserID, Email and TwoFactorPending=true and must be rejected by every
// protected endpoint regardless of signature validity.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID is the internal identifier of the authenticated user.
	UserID int64 `json:"userId"`

	// Email is the account email at issuance time.
	Email string `json:"email"`

	// Role is the authorization role of the account. Absent on pending
	// tokens.
	Role string `json:"role,omitempty"`

	// TwoFactorPending marks the token as a restricted-scope pending token:
	// the password has been verified but the TOTP step has not completed.
	TwoFactorPending bool `json:"twoFactorPending,omitempty"`
}

// Token wraps a JWT session token with convenience accessors for
// authentication flows.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and carries the decoded [AuthClaims].
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers.
type Token struct {
	// Token is the underlying JWT token used for signing and claim
	// inspection. Excluded from JSON serialization because only the compact
	// string form is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// Claims is the decoded claim set of the token.
	Claims AuthClaims `json:"-"`

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`
}

// IsPending reports whether the token is a restricted-scope pending token
// awaiting 2FA completion.
//
// Protected-resource consumers must check this explicitly after signature
// verification; a pending token must never be accepted where a full token is
// required.
func (t *Token) IsPending() bool {
	return t.Claims.TwoFactorPending
}

// String returns the compact JWS serialization of the token
// (the signed, base64url-encoded header.payload.signature string).
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
