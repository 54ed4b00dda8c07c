package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/models"
	"github.com/jackc/pgerrcode"
)

type userRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("UserRepository created")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	row := r.db.QueryRowContext(ctx, createUser,
		user.Email,
		nullIfEmpty(user.PasswordHash),
		nullIfEmpty(user.TOTPSecret),
		nullIfEmpty(user.TOTPAuthURL),
		user.Role,
	)

	created, err := scanUser(row)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		case "":
			return models.User{}, err
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "FindUserByEmail", findUserByEmail, email)
}

func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "FindUserByID", findUserByID, userID)
}

func (r *userRepository) FindUserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	return r.findOne(ctx, "FindUserByGoogleID", findUserByGoogleID, googleID)
}

func (r *userRepository) findOne(ctx context.Context, fn string, query string, arg any) (models.User, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	found, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		r.logger.Err(err).Str("func", "*userRepository."+fn).Msg("error querying user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.execOnUser(ctx, "UpdateUserPassword", updateUserPassword, userID, passwordHash)
}

func (r *userRepository) UpdateUserResetChallenge(ctx context.Context, userID int64, tokenHash string, expires time.Time) error {
	query, args, err := buildUpdateResetChallengeQuery(userID, tokenHash, expires)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.UpdateUserResetChallenge").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execOnUser(ctx, "UpdateUserResetChallenge", query, args...)
}

func (r *userRepository) ClearResetChallenge(ctx context.Context, userID int64) error {
	query, args, err := buildUpdateResetChallengeQuery(userID, nil, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.ClearResetChallenge").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execOnUser(ctx, "ClearResetChallenge", query, args...)
}

func (r *userRepository) ClearExpiredResetChallenges(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, clearExpiredResetChallenges, now)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.ClearExpiredResetChallenges").Msg("error clearing expired reset challenges")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	cleared, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return cleared, nil
}

func (r *userRepository) ListUsersWithActiveResetChallenge(ctx context.Context, now time.Time) ([]models.User, error) {
	query, args, err := buildListActiveResetChallengesQuery(now)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.ListUsersWithActiveResetChallenge").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.ListUsersWithActiveResetChallenge").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (r *userRepository) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	err := r.execOnUser(ctx, "LinkGoogleID", linkGoogleID, userID, googleID)
	if err != nil && postgresError(err) == pgerrcode.UniqueViolation {
		return ErrGoogleIDAlreadyLinked
	}

	return err
}

// execOnUser runs a DML statement scoped to a single user and converts the
// zero-rows-affected case to ErrNoUserWasFound.
func (r *userRepository) execOnUser(ctx context.Context, fn string, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository."+fn).Msg("error executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user         models.User
		passwordHash sql.NullString
		totpSecret   sql.NullString
		totpAuthURL  sql.NullString
		googleID     sql.NullString
		resetToken   sql.NullString
		resetExpires sql.NullTime
	)

	err := row.Scan(
		&user.UserID,
		&user.Email,
		&passwordHash,
		&totpSecret,
		&totpAuthURL,
		&user.TOTPEnabled,
		&user.Role,
		&googleID,
		&resetToken,
		&resetExpires,
		&user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	user.PasswordHash = passwordHash.String
	user.TOTPSecret = totpSecret.String
	user.TOTPAuthURL = totpAuthURL.String
	user.GoogleID = googleID.String
	user.ResetTokenHash = resetToken.String
	if resetExpires.Valid {
		expires := resetExpires.Time
		user.ResetExpires = &expires
	}

	return user, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}
