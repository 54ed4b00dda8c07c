package models

import "time"

// Roles assignable to a user account. New accounts default to RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is assigned by the database at creation and is immutable.
	UserID int64 `json:"-"`

	// Email is the unique user identifier used during authentication.
	// Uniqueness is enforced case-insensitively at the storage layer.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for social-login-only accounts. Never plaintext, never logged.
	PasswordHash string `json:"-"`

	// TOTPSecret is the base32-encoded shared secret generated at
	// registration. Empty only before registration completes or for
	// social-login-only accounts.
	TOTPSecret string `json:"-"`

	// TOTPAuthURL is the otpauth:// provisioning URI advertised to the
	// user's authenticator app at registration time.
	TOTPAuthURL string `json:"-"`

	// TOTPEnabled gates whether login requires the 2FA step.
	TOTPEnabled bool `json:"-"`

	// Role is the authorization role of the account ("user", "admin").
	Role string `json:"role"`

	// GoogleID is the external Google account identifier linked to this
	// user, or empty when no Google account is linked.
	GoogleID string `json:"-"`

	// ResetTokenHash is the bcrypt hash of the currently active password
	// reset token. Empty when no reset is pending.
	ResetTokenHash string `json:"-"`

	// ResetExpires is the expiry of the active password reset challenge.
	// Nil when no reset is pending.
	ResetExpires *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// RecoveryCode is a single-use backup credential stored as a bcrypt hash.
// The plaintext code is shown to the user exactly once at registration.
type RecoveryCode struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"-"`
	CodeHash  string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the RecoveryCode model.
func (c RecoveryCode) TableName() string {
	return "recovery_codes"
}
