// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/internal/totp"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthConfig = config.Auth{
	TokenSignKey:         "test-sign-key",
	TokenIssuer:          "go-budget-auth-test",
	TokenDuration:        time.Hour,
	PendingTokenDuration: 10 * time.Minute,
}

func newTestAuthService(users *mockUserRepository, codes *mockRecoveryCodeRepository) AuthService {
	return NewAuthService(users, codes, totp.NewEngine("Budgeting App"), testAuthConfig, logger.Nop())
}

// ─────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────

func TestRegister_InvalidEmail(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	for _, email := range []string{"", "plain", "no@tld", "two words@example.com", "@example.com"} {
		_, err := svc.Register(context.Background(), email, "longenoughpassword")
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	created := false
	users := &mockUserRepository{
		createFn: func(ctx context.Context, user models.User) (models.User, error) {
			created = true
			return user, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	_, err := svc.Register(context.Background(), "alice@example.com", "short")

	require.ErrorIs(t, err, ErrPasswordTooShort)
	assert.False(t, created, "validation must short-circuit before any persistence")
}

func TestRegister_Success(t *testing.T) {
	var storedHashes []string
	users := &mockUserRepository{
		createFn: func(ctx context.Context, user models.User) (models.User, error) {
			user.UserID = 1
			return user, nil
		},
	}
	codes := &mockRecoveryCodeRepository{
		replaceFn: func(ctx context.Context, userID int64, codeHashes []string) error {
			storedHashes = codeHashes
			return nil
		},
	}
	svc := newTestAuthService(users, codes)

	reg, err := svc.Register(context.Background(), "alice@example.com", "longenoughpassword")
	require.NoError(t, err)

	assert.Equal(t, int64(1), reg.User.UserID)
	assert.Equal(t, models.RoleUser, reg.User.Role)
	assert.True(t, reg.User.TOTPEnabled)

	// base32 secret, no padding
	assert.Regexp(t, regexp.MustCompile(`^[A-Z2-7]+$`), reg.TOTPSecret)
	assert.Contains(t, reg.User.TOTPAuthURL, "otpauth://totp/")

	// password is stored hashed, never verbatim
	assert.NotEqual(t, "longenoughpassword", reg.User.PasswordHash)
	assert.True(t, utils.CheckSecret("longenoughpassword", reg.User.PasswordHash))

	require.Len(t, reg.RecoveryCodes, totp.RecoveryCodeCount)
	require.Len(t, storedHashes, totp.RecoveryCodeCount)
	for i, code := range reg.RecoveryCodes {
		assert.True(t, utils.CheckSecret(code, storedHashes[i]), "stored hash %d must match plaintext code", i)
	}

	assert.Contains(t, reg.QRCodeDataURL, "data:image/png;base64,")
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	users := &mockUserRepository{
		createFn: func(ctx context.Context, user models.User) (models.User, error) {
			return models.User{}, store.ErrEmailAlreadyExists
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	_, err := svc.Register(context.Background(), "alice@example.com", "longenoughpassword")
	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func loginTestUser(t *testing.T, password string, totpArmed bool) models.User {
	t.Helper()

	hash, err := utils.HashSecret(password)
	require.NoError(t, err)

	user := models.User{
		UserID:       7,
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if totpArmed {
		user.TOTPSecret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"
		user.TOTPEnabled = true
	}

	return user
}

func TestLogin_MalformedEmail(t *testing.T) {
	searched := false
	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			searched = true
			return models.User{}, store.ErrNoUserWasFound
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	_, err := svc.Login(context.Background(), "not-an-email", "whateverpassword")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.False(t, searched, "malformed email must be rejected before the lookup")
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	_, err := svc.Login(context.Background(), "ghost@example.com", "whateverpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := loginTestUser(t, "correct-password", false)
	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	_, err := svc.Login(context.Background(), user.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_SocialOnlyAccountHasNoPassword(t *testing.T) {
	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return models.User{UserID: 9, Email: email, GoogleID: "sub-123"}, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	_, err := svc.Login(context.Background(), "social@example.com", "any-password-at-all")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TwoFactorArmed_IssuesPendingToken(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	result, err := svc.Login(context.Background(), user.Email, "correct-password")
	require.NoError(t, err)

	assert.True(t, result.Requires2FA)
	require.True(t, result.Token.IsPending())
	assert.Equal(t, user.UserID, result.Token.Claims.UserID)
	assert.Empty(t, result.Token.Claims.Role, "pending token must not carry a role")
}

func TestLogin_NoTwoFactor_IssuesFullToken(t *testing.T) {
	user := loginTestUser(t, "correct-password", false)
	users := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	result, err := svc.Login(context.Background(), user.Email, "correct-password")
	require.NoError(t, err)

	assert.False(t, result.Requires2FA)
	assert.False(t, result.Token.IsPending())
	assert.Equal(t, models.RoleUser, result.Token.Claims.Role)

	// the issued string must round-trip through validation
	parsed, err := svc.ParseToken(context.Background(), result.Token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, parsed.Claims.UserID)
}

// ─────────────────────────────────────────────
// VerifyTwoFactor
// ─────────────────────────────────────────────

func pendingTokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := utils.GeneratePendingToken(testAuthConfig.TokenIssuer, user, testAuthConfig.PendingTokenDuration, testAuthConfig.TokenSignKey)
	require.NoError(t, err)

	return token.SignedString
}

func TestVerifyTwoFactor_MissingInput(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{TempToken: "x"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestVerifyTwoFactor_InvalidTempToken(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken: "not.a.jwt",
		TOTPCode:  "123456",
	})
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestVerifyTwoFactor_FullTokenRejected(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	full, err := utils.GenerateFullToken(testAuthConfig.TokenIssuer, user, testAuthConfig.TokenDuration, testAuthConfig.TokenSignKey)
	require.NoError(t, err)

	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	_, err = svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken: full.SignedString,
		TOTPCode:  "123456",
	})
	assert.ErrorIs(t, err, ErrTwoFactorNotPending)
}

func TestVerifyTwoFactor_UserGone(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	// a valid pending token for a deleted account is "user not found", not an
	// expired-token failure
	_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken: pendingTokenFor(t, user),
		TOTPCode:  "123456",
	})
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestVerifyTwoFactor_MalformedCodeShape(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID int64) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	// anything that is not exactly six digits is rejected as bad input before
	// the code is checked against the secret
	for _, code := range []string{"12345", "1234567", "12345a", "abcdef", " 123456"} {
		_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
			TempToken: pendingTokenFor(t, user),
			TOTPCode:  code,
		})
		assert.ErrorIs(t, err, ErrInvalidDataProvided, "code %q", code)
	}
}

func TestVerifyTwoFactor_CorruptStoredSecret(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID int64) (models.User, error) {
			stored := user
			stored.TOTPSecret = "11111111" // not valid base32
			return stored, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	// an undecodable stored secret is an internal failure, not a wrong code
	_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken: pendingTokenFor(t, user),
		TOTPCode:  "123456",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTwoFactorCode)
}

func TestVerifyTwoFactor_NotConfigured(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID int64) (models.User, error) {
			stored := user
			stored.TOTPSecret = ""
			return stored, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken: pendingTokenFor(t, user),
		TOTPCode:  "123456",
	})
	assert.ErrorIs(t, err, ErrTwoFactorNotConfigured)
}

func TestVerifyTwoFactor_WrongTOTPCode(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID int64) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(users, &mockRecoveryCodeRepository{})

	_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken: pendingTokenFor(t, user),
		TOTPCode:  "000000",
	})
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)
}

func TestVerifyTwoFactor_RecoveryCodeConsumed(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)

	codeHash, err := utils.HashSecret("ABCD1234")
	require.NoError(t, err)

	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID int64) (models.User, error) {
			return user, nil
		},
	}

	var consumedID int64
	codes := &mockRecoveryCodeRepository{
		listFn: func(ctx context.Context, userID int64) ([]models.RecoveryCode, error) {
			return []models.RecoveryCode{
				{ID: 41, UserID: userID, CodeHash: "$2a$12$unrelatedhashvalue000000000000000000000000000000000000"},
				{ID: 42, UserID: userID, CodeHash: codeHash},
			}, nil
		},
		consumeFn: func(ctx context.Context, codeID int64) error {
			consumedID = codeID
			return nil
		},
	}
	svc := newTestAuthService(users, codes)

	// lowercase with surrounding spaces must still match
	token, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken:    pendingTokenFor(t, user),
		RecoveryCode: " abcd1234 ",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), consumedID)
	assert.False(t, token.IsPending())
	assert.Equal(t, user.UserID, token.Claims.UserID)
}

func TestVerifyTwoFactor_RecoveryCodeNoMatch(t *testing.T) {
	user := loginTestUser(t, "correct-password", true)
	users := &mockUserRepository{
		findByIDFn: func(ctx context.Context, userID int64) (models.User, error) {
			return user, nil
		},
	}
	codes := &mockRecoveryCodeRepository{
		listFn: func(ctx context.Context, userID int64) ([]models.RecoveryCode, error) {
			return nil, nil
		},
	}
	svc := newTestAuthService(users, codes)

	_, err := svc.VerifyTwoFactor(context.Background(), models.TwoFactorRequest{
		TempToken:    pendingTokenFor(t, user),
		RecoveryCode: "ABCD1234",
	})
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)
}

// ─────────────────────────────────────────────
// ParseToken
// ─────────────────────────────────────────────

func TestParseToken_Invalid(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	_, err := svc.ParseToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestParseToken_WrongIssuer(t *testing.T) {
	user := loginTestUser(t, "correct-password", false)
	foreign, err := utils.GenerateFullToken("someone-else", user, time.Hour, testAuthConfig.TokenSignKey)
	require.NoError(t, err)

	svc := newTestAuthService(&mockUserRepository{}, &mockRecoveryCodeRepository{})

	_, parseErr := svc.ParseToken(context.Background(), foreign.SignedString)
	assert.True(t, errors.Is(parseErr, ErrTokenIsExpiredOrInvalid))
}
