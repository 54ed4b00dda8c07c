package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/internal/utils"
	"github.com/MKhiriev/go-budget-auth/models"
)

// identityLinkingService implements IdentityLinkingService for Google sign-in.
//
// The flow is decoupled from the password/TOTP core: a validated Google
// identity maps onto an existing linked account, links itself to an account
// with the same email, or creates a fresh password-less account. In every
// case a full session token is issued directly — the identity provider is
// trusted to have authenticated the user.
type identityLinkingService struct {
	userRepository store.UserRepository
	validator      GoogleTokenValidator

	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	logger *logger.Logger
}

func NewIdentityLinkingService(
	userRepository store.UserRepository,
	validator GoogleTokenValidator,
	cfg config.Auth,
	logger *logger.Logger,
) IdentityLinkingService {
	return &identityLinkingService{
		userRepository: userRepository,
		validator:      validator,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// GoogleSignIn validates the supplied Google ID token and returns a full
// session token for the resolved account.
//
// Returns ErrGoogleTokenInvalid when the ID token fails validation (bad
// signature, wrong audience, expired) and ErrInvalidDataProvided when no
// token was supplied at all.
func (s *identityLinkingService) GoogleSignIn(ctx context.Context, idToken string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if idToken == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	identity, err := s.validator.Validate(ctx, idToken)
	if err != nil {
		log.Err(err).Str("func", "*identityLinkingService.GoogleSignIn").Msg("google id token validation failed")
		return models.Token{}, ErrGoogleTokenInvalid
	}

	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return models.Token{}, err
	}

	full, err := utils.GenerateFullToken(s.tokenIssuer, user, s.tokenDuration, s.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*identityLinkingService.GoogleSignIn").Int64("user_id", user.UserID).Msg("token generation failed")
		return models.Token{}, fmt.Errorf("token generation failed: %w", err)
	}

	return full, nil
}

// resolveUser maps a Google identity onto a local account: linked account
// first, then same-email linking, then account creation.
func (s *identityLinkingService) resolveUser(ctx context.Context, identity GoogleIdentity) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByGoogleID(ctx, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		log.Err(err).Str("func", "*identityLinkingService.resolveUser").Msg("user search by google id failed")
		return models.User{}, fmt.Errorf("user search by google id failed: %w", err)
	}

	user, err = s.userRepository.FindUserByEmail(ctx, identity.Email)
	if err == nil {
		if err := s.userRepository.LinkGoogleID(ctx, user.UserID, identity.Subject); err != nil {
			log.Err(err).Str("func", "*identityLinkingService.resolveUser").Int64("user_id", user.UserID).Msg("google account linking failed")
			return models.User{}, fmt.Errorf("google account linking failed: %w", err)
		}
		user.GoogleID = identity.Subject

		return user, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		log.Err(err).Str("func", "*identityLinkingService.resolveUser").Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	created, err := s.userRepository.CreateUser(ctx, models.User{
		Email: identity.Email,
		Role:  models.RoleUser,
	})
	if err != nil {
		log.Err(err).Str("func", "*identityLinkingService.resolveUser").Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	if err := s.userRepository.LinkGoogleID(ctx, created.UserID, identity.Subject); err != nil {
		log.Err(err).Str("func", "*identityLinkingService.resolveUser").Int64("user_id", created.UserID).Msg("google account linking failed")
		return models.User{}, fmt.Errorf("google account linking failed: %w", err)
	}
	created.GoogleID = identity.Subject

	return created, nil
}
