package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrPasswordTooShort    = errors.New("password must be at least 10 characters")

	// ErrInvalidCredentials deliberately covers unknown email, wrong password
	// and password-less social accounts alike so responses cannot be used to
	// enumerate registered emails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrTwoFactorNotPending is returned when a full (or otherwise
	// non-pending) token is presented to 2FA verification. It is a request
	// shape error, distinct from signature or expiry failures.
	ErrTwoFactorNotPending    = errors.New("token is not a pending 2FA token")
	ErrTwoFactorNotConfigured = errors.New("two-factor authentication is not configured")
	ErrInvalidTwoFactorCode   = errors.New("invalid two-factor code")

	ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")

	ErrGoogleTokenInvalid = errors.New("google token is invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
