package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-budget-auth/models"
)

// UserRepository is the persistence boundary for user accounts and their
// credential material.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (models.User, error)
	UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateUserResetChallenge(ctx context.Context, userID int64, tokenHash string, expires time.Time) error
	ClearResetChallenge(ctx context.Context, userID int64) error
	ClearExpiredResetChallenges(ctx context.Context, now time.Time) (int64, error)
	ListUsersWithActiveResetChallenge(ctx context.Context, now time.Time) ([]models.User, error)
	LinkGoogleID(ctx context.Context, userID int64, googleID string) error
}

// RecoveryCodeRepository stores hashed single-use backup codes.
// Codes are consumed (deleted) on successful use.
type RecoveryCodeRepository interface {
	ReplaceCodes(ctx context.Context, userID int64, codeHashes []string) error
	ListCodes(ctx context.Context, userID int64) ([]models.RecoveryCode, error)
	ConsumeCode(ctx context.Context, codeID int64) error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. Implemented by [PostgresErrorClassifier].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
