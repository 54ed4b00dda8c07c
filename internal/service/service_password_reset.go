package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/mailer"
	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
)

const (
	// resetTokenBytes is the entropy of the raw reset token. The token
	// travels as a 64-character hex string and only its bcrypt hash is
	// stored.
	resetTokenBytes = 32

	// resetTokenTTL is how long a reset challenge stays redeemable.
	resetTokenTTL = time.Hour
)

// passwordResetService implements PasswordResetService.
//
// The raw reset token is never persisted: the database holds a bcrypt hash,
// so redeeming a token requires scanning the currently active challenges and
// comparing against each. The active set is kept small by the expiry sweep
// worker.
type passwordResetService struct {
	userRepository store.UserRepository
	mailer         mailer.ResetMailer
	frontendURL    string
	logger         *logger.Logger

	// now is injectable for tests.
	now func() time.Time
}

func NewPasswordResetService(
	userRepository store.UserRepository,
	resetMailer mailer.ResetMailer,
	cfg config.App,
	logger *logger.Logger,
) PasswordResetService {
	return &passwordResetService{
		userRepository: userRepository,
		mailer:         resetMailer,
		frontendURL:    strings.TrimRight(cfg.FrontendURL, "/"),
		logger:         logger,
		now:            time.Now,
	}
}

// RequestReset arms a password-reset challenge for the account and mails the
// reset link.
//
// An unknown email is NOT an error: the method returns nil so the transport
// layer answers identically whether or not the account exists. A non-nil
// error is only returned for internal failures (storage, mail delivery).
func (p *passwordResetService) RequestReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrInvalidDataProvided
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	user, err := p.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Info().Str("func", "*passwordResetService.RequestReset").Msg("reset requested for unknown email")
			return nil
		}

		log.Err(err).Str("func", "*passwordResetService.RequestReset").Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	rawToken, err := generateResetToken()
	if err != nil {
		log.Err(err).Str("func", "*passwordResetService.RequestReset").Msg("reset token generation failed")
		return fmt.Errorf("reset token generation failed: %w", err)
	}

	tokenHash, err := utils.HashSecret(rawToken)
	if err != nil {
		log.Err(err).Str("func", "*passwordResetService.RequestReset").Msg("reset token hashing failed")
		return fmt.Errorf("reset token hashing failed: %w", err)
	}

	expires := p.now().Add(resetTokenTTL)
	if err := p.userRepository.UpdateUserResetChallenge(ctx, user.UserID, tokenHash, expires); err != nil {
		log.Err(err).Str("func", "*passwordResetService.RequestReset").Int64("user_id", user.UserID).Msg("reset challenge storage failed")
		return fmt.Errorf("reset challenge storage failed: %w", err)
	}

	resetURL := p.frontendURL + "/reset-password/" + rawToken
	if err := p.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		// Disarm the challenge so an unreachable mailbox does not leave a
		// live token nobody received.
		if clearErr := p.userRepository.ClearResetChallenge(ctx, user.UserID); clearErr != nil {
			log.Err(clearErr).Str("func", "*passwordResetService.RequestReset").Int64("user_id", user.UserID).Msg("reset challenge cleanup failed")
		}

		log.Err(err).Str("func", "*passwordResetService.RequestReset").Int64("user_id", user.UserID).Msg("reset email delivery failed")
		return fmt.Errorf("reset email delivery failed: %w", err)
	}

	return nil
}

// ResetPassword redeems a reset token and sets the new password.
//
// The token is matched by scanning users with an unexpired challenge and
// bcrypt-comparing the supplied token against each stored hash. A successful
// update also clears the challenge, so each token is single-use.
//
// Returns ErrPasswordTooShort on validation failure and ErrResetTokenInvalid
// when no active challenge matches.
func (p *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	if token == "" {
		return ErrResetTokenInvalid
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	candidates, err := p.userRepository.ListUsersWithActiveResetChallenge(ctx, p.now())
	if err != nil {
		log.Err(err).Str("func", "*passwordResetService.ResetPassword").Msg("active reset challenge listing failed")
		return fmt.Errorf("active reset challenge listing failed: %w", err)
	}

	for _, user := range candidates {
		if !utils.CheckSecret(token, user.ResetTokenHash) {
			continue
		}

		passwordHash, err := utils.HashSecret(newPassword)
		if err != nil {
			log.Err(err).Str("func", "*passwordResetService.ResetPassword").Msg("password hashing failed")
			return fmt.Errorf("password hashing failed: %w", err)
		}

		// UpdateUserPassword also clears the reset challenge.
		if err := p.userRepository.UpdateUserPassword(ctx, user.UserID, passwordHash); err != nil {
			log.Err(err).Str("func", "*passwordResetService.ResetPassword").Int64("user_id", user.UserID).Msg("password update failed")
			return fmt.Errorf("password update failed: %w", err)
		}

		log.Info().Str("func", "*passwordResetService.ResetPassword").Int64("user_id", user.UserID).Msg("password reset completed")
		return nil
	}

	return ErrResetTokenInvalid
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
