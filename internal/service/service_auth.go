package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/internal/totp"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
)

// MinPasswordLength is the minimum accepted password length. Checked before
// any hashing work so oversized or undersized input never reaches bcrypt.
const MinPasswordLength = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// authService is the concrete implementation of AuthService.
// It owns the registration and login state machine: password verification,
// the pending-token handoff to 2FA, and full session token issuance.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// recoveryCodeRepository stores hashed single-use backup codes accepted
	// in place of a TOTP code.
	recoveryCodeRepository store.RecoveryCodeRepository

	// totpEngine generates shared secrets and verifies authenticator codes.
	totpEngine *totp.Engine

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a full session token remains valid.
	tokenDuration time.Duration

	// pendingTokenDuration controls how long the restricted 2FA handoff
	// token remains valid. Always shorter than tokenDuration.
	pendingTokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repositories
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	userRepository store.UserRepository,
	recoveryCodeRepository store.RecoveryCodeRepository,
	totpEngine *totp.Engine,
	cfg config.Auth,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository:         userRepository,
		recoveryCodeRepository: recoveryCodeRepository,
		totpEngine:             totpEngine,
		tokenSignKey:           cfg.TokenSignKey,
		tokenIssuer:            cfg.TokenIssuer,
		tokenDuration:          cfg.TokenDuration,
		pendingTokenDuration:   cfg.PendingTokenDuration,
		logger:                 logger,
	}
}

// Register creates a new user account with 2FA armed from the start.
//
// Validation happens before any crypto work: the email must match the accepted
// shape and the password must be at least MinPasswordLength characters. The
// password is bcrypt-hashed, a fresh TOTP secret and provisioning URI are
// generated, and the account is persisted. Recovery codes are generated and
// stored hashed; their plaintext is returned exactly once.
//
// Returns:
//   - ErrInvalidEmail / ErrPasswordTooShort on validation failure.
//   - store.ErrEmailAlreadyExists (wrapped) when the email is taken, including
//     the case where a concurrent registration wins the race at the unique index.
func (a *authService) Register(ctx context.Context, email, password string) (Registration, error) {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return Registration{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return Registration{}, ErrPasswordTooShort
	}

	passwordHash, err := utils.HashSecret(password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("password hashing failed")
		return Registration{}, fmt.Errorf("password hashing failed: %w", err)
	}

	secret, err := a.totpEngine.GenerateSecret(email)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("totp secret generation failed")
		return Registration{}, fmt.Errorf("totp secret generation failed: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		TOTPSecret:   secret.Base32,
		TOTPAuthURL:  secret.ProvisioningURI,
		TOTPEnabled:  true,
		Role:         models.RoleUser,
	}

	registered, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Str("email", email).Msg("user creation ended with error")
		return Registration{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	recoveryCodes, err := a.storeRecoveryCodes(ctx, registered.UserID)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Int64("user_id", registered.UserID).Msg("recovery code storage failed")
		return Registration{}, fmt.Errorf("recovery code storage failed: %w", err)
	}

	// QR rendering failure is not fatal: the base32 secret is still usable
	// for manual authenticator enrollment.
	qrCodeDataURL, err := totp.QRCodeDataURL(secret.ProvisioningURI)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("qr code rendering failed")
		qrCodeDataURL = ""
	}

	return Registration{
		User:          registered,
		TOTPSecret:    secret.Base32,
		QRCodeDataURL: qrCodeDataURL,
		RecoveryCodes: recoveryCodes,
	}, nil
}

func (a *authService) storeRecoveryCodes(ctx context.Context, userID int64) ([]string, error) {
	codes, err := totp.GenerateRecoveryCodes()
	if err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(codes))
	for _, code := range codes {
		hash, err := utils.HashSecret(code)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}

	if err := a.recoveryCodeRepository.ReplaceCodes(ctx, userID, hashes); err != nil {
		return nil, err
	}

	return codes, nil
}

// Login authenticates a user by email and password.
//
// Unknown emails, wrong passwords and password-less social accounts all
// collapse into ErrInvalidCredentials so the response shape cannot reveal
// whether an account exists.
//
// When the account has 2FA armed, the result carries a short-lived pending
// token instead of a session token; the caller must complete VerifyTwoFactor
// to obtain a full token.
func (a *authService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidDataProvided
	}
	if !emailPattern.MatchString(email) {
		return LoginResult{}, ErrInvalidEmail
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return LoginResult{}, ErrInvalidCredentials
		}

		log.Err(err).Str("func", "*authService.Login").Msg("user search by email failed")
		return LoginResult{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if user.PasswordHash == "" || !utils.CheckSecret(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	if user.TOTPSecret != "" && user.TOTPEnabled {
		pending, err := utils.GeneratePendingToken(a.tokenIssuer, user, a.pendingTokenDuration, a.tokenSignKey)
		if err != nil {
			log.Err(err).Str("func", "*authService.Login").Int64("user_id", user.UserID).Msg("pending token generation failed")
			return LoginResult{}, fmt.Errorf("pending token generation failed: %w", err)
		}

		return LoginResult{Requires2FA: true, Token: pending}, nil
	}

	full, err := utils.GenerateFullToken(a.tokenIssuer, user, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Int64("user_id", user.UserID).Msg("token generation failed")
		return LoginResult{}, fmt.Errorf("token generation failed: %w", err)
	}

	return LoginResult{Requires2FA: false, Token: full}, nil
}

// VerifyTwoFactor exchanges a pending token plus a TOTP code (or a single-use
// recovery code) for a full session token.
//
// Returns:
//   - ErrInvalidDataProvided when the input is missing or the TOTP code is
//     not exactly six digits.
//   - ErrTokenIsExpiredOrInvalid when the pending token fails signature or
//     expiry checks.
//   - store.ErrNoUserWasFound when the token references a user that no
//     longer exists.
//   - ErrTwoFactorNotPending when a non-pending token is presented. This is a
//     malformed request, not an authentication failure.
//   - ErrTwoFactorNotConfigured when the account carries no TOTP secret.
//   - ErrInvalidTwoFactorCode when neither the TOTP code nor the recovery code
//     matches.
func (a *authService) VerifyTwoFactor(ctx context.Context, req models.TwoFactorRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if req.TempToken == "" || (req.TOTPCode == "" && req.RecoveryCode == "") {
		return models.Token{}, ErrInvalidDataProvided
	}

	// malformed code shape is a bad request, checked before any token work
	if req.RecoveryCode == "" && !totp.IsCodeShaped(req.TOTPCode) {
		return models.Token{}, ErrInvalidDataProvided
	}

	pending, err := utils.ValidateAndParseToken(req.TempToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	if !pending.IsPending() {
		return models.Token{}, ErrTwoFactorNotPending
	}

	user, err := a.userRepository.FindUserByID(ctx, pending.Claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Token{}, store.ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*authService.VerifyTwoFactor").Msg("user search by id failed")
		return models.Token{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if user.TOTPSecret == "" {
		return models.Token{}, ErrTwoFactorNotConfigured
	}

	if req.RecoveryCode != "" {
		if err := a.consumeRecoveryCode(ctx, user.UserID, req.RecoveryCode); err != nil {
			return models.Token{}, err
		}
	} else {
		ok, err := a.totpEngine.VerifyCode(user.TOTPSecret, req.TOTPCode, totp.DefaultWindow)
		if err != nil {
			log.Err(err).Str("func", "*authService.VerifyTwoFactor").Int64("user_id", user.UserID).Msg("totp verification failed")
			return models.Token{}, fmt.Errorf("totp verification failed: %w", err)
		}
		if !ok {
			return models.Token{}, ErrInvalidTwoFactorCode
		}
	}

	full, err := utils.GenerateFullToken(a.tokenIssuer, user, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*authService.VerifyTwoFactor").Int64("user_id", user.UserID).Msg("token generation failed")
		return models.Token{}, fmt.Errorf("token generation failed: %w", err)
	}

	return full, nil
}

// consumeRecoveryCode matches the supplied code against the user's stored
// hashes and deletes the matched code so it can never be used again.
func (a *authService) consumeRecoveryCode(ctx context.Context, userID int64, code string) error {
	log := logger.FromContext(ctx)

	stored, err := a.recoveryCodeRepository.ListCodes(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*authService.consumeRecoveryCode").Int64("user_id", userID).Msg("recovery code listing failed")
		return fmt.Errorf("recovery code listing failed: %w", err)
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, candidate := range stored {
		if utils.CheckSecret(normalized, candidate.CodeHash) {
			if err := a.recoveryCodeRepository.ConsumeCode(ctx, candidate.ID); err != nil {
				log.Err(err).Str("func", "*authService.consumeRecoveryCode").Int64("code_id", candidate.ID).Msg("recovery code consumption failed")
				return fmt.Errorf("recovery code consumption failed: %w", err)
			}

			return nil
		}
	}

	return ErrInvalidTwoFactorCode
}

// ParseToken validates a compact JWT string and returns the decoded token.
// Signature, expiry and issuer failures all collapse into
// ErrTokenIsExpiredOrInvalid; callers decide separately whether pending
// tokens are acceptable.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
