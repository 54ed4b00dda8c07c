package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createFn            func(ctx context.Context, user models.User) (models.User, error)
	findByEmailFn       func(ctx context.Context, email string) (models.User, error)
	findByIDFn          func(ctx context.Context, userID int64) (models.User, error)
	findByGoogleIDFn    func(ctx context.Context, googleID string) (models.User, error)
	updatePasswordFn    func(ctx context.Context, userID int64, passwordHash string) error
	updateChallengeFn   func(ctx context.Context, userID int64, tokenHash string, expires time.Time) error
	clearChallengeFn    func(ctx context.Context, userID int64) error
	clearExpiredFn      func(ctx context.Context, now time.Time) (int64, error)
	listWithChallengeFn func(ctx context.Context, now time.Time) ([]models.User, error)
	linkGoogleIDFn      func(ctx context.Context, userID int64, googleID string) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, userID)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	if m.findByGoogleIDFn != nil {
		return m.findByGoogleIDFn(ctx, googleID)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) UpdateUserResetChallenge(ctx context.Context, userID int64, tokenHash string, expires time.Time) error {
	if m.updateChallengeFn != nil {
		return m.updateChallengeFn(ctx, userID, tokenHash, expires)
	}
	return nil
}

func (m *mockUserRepository) ClearResetChallenge(ctx context.Context, userID int64) error {
	if m.clearChallengeFn != nil {
		return m.clearChallengeFn(ctx, userID)
	}
	return nil
}

func (m *mockUserRepository) ClearExpiredResetChallenges(ctx context.Context, now time.Time) (int64, error) {
	if m.clearExpiredFn != nil {
		return m.clearExpiredFn(ctx, now)
	}
	return 0, nil
}

func (m *mockUserRepository) ListUsersWithActiveResetChallenge(ctx context.Context, now time.Time) ([]models.User, error) {
	if m.listWithChallengeFn != nil {
		return m.listWithChallengeFn(ctx, now)
	}
	return nil, nil
}

func (m *mockUserRepository) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	if m.linkGoogleIDFn != nil {
		return m.linkGoogleIDFn(ctx, userID, googleID)
	}
	return nil
}

var _ store.UserRepository = (*mockUserRepository)(nil)

// ─────────────────────────────────────────────
// Mock: store.RecoveryCodeRepository
// ─────────────────────────────────────────────

type mockRecoveryCodeRepository struct {
	replaceFn func(ctx context.Context, userID int64, codeHashes []string) error
	listFn    func(ctx context.Context, userID int64) ([]models.RecoveryCode, error)
	consumeFn func(ctx context.Context, codeID int64) error
}

func (m *mockRecoveryCodeRepository) ReplaceCodes(ctx context.Context, userID int64, codeHashes []string) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, userID, codeHashes)
	}
	return nil
}

func (m *mockRecoveryCodeRepository) ListCodes(ctx context.Context, userID int64) ([]models.RecoveryCode, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockRecoveryCodeRepository) ConsumeCode(ctx context.Context, codeID int64) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, codeID)
	}
	return nil
}

var _ store.RecoveryCodeRepository = (*mockRecoveryCodeRepository)(nil)

// ─────────────────────────────────────────────
// Mock: mailer.ResetMailer
// ─────────────────────────────────────────────

type mockResetMailer struct {
	sendFn func(ctx context.Context, to string, resetURL string) error
}

func (m *mockResetMailer) SendPasswordReset(ctx context.Context, to string, resetURL string) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, to, resetURL)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: GoogleTokenValidator
// ─────────────────────────────────────────────

type mockGoogleValidator struct {
	validateFn func(ctx context.Context, idToken string) (GoogleIdentity, error)
}

func (m *mockGoogleValidator) Validate(ctx context.Context, idToken string) (GoogleIdentity, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, idToken)
	}
	return GoogleIdentity{}, nil
}
