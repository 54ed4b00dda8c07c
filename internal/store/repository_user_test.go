package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userRows(user models.User, now time.Time) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{
			"user_id", "email", "password_hash", "totp_secret", "totp_auth_url",
			"is_totp_enabled", "role", "google_id",
			"reset_password_token", "reset_password_expires", "created_at",
		}).
		AddRow(user.UserID, user.Email, user.PasswordHash, user.TOTPSecret, user.TOTPAuthURL,
			user.TOTPEnabled, user.Role, nil, nil, nil, now)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$hash",
		TOTPSecret:   "JBSWY3DPEHPK3PXP",
		TOTPAuthURL:  "otpauth://totp/x",
		TOTPEnabled:  true,
		Role:         models.RoleUser,
	}

	saved := user
	saved.UserID = 1

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Email, user.PasswordHash, user.TOTPSecret, user.TOTPAuthURL, user.Role).
		WillReturnRows(userRows(saved, time.Now()))

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "alice@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "alice@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.NotNullViolation))

	_, err := repo.CreateUser(ctx, user)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{UserID: 7, Email: "bob@example.com", TOTPEnabled: true, Role: models.RoleUser}

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(user.Email).
		WillReturnRows(userRows(user, time.Now()))

	found, err := repo.FindUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != user.UserID {
		t.Errorf("expected UserID=%d, got %d", user.UserID, found.UserID)
	}
	if found.GoogleID != "" {
		t.Errorf("expected empty GoogleID for NULL column, got %q", found.GoogleID)
	}
	if found.ResetExpires != nil {
		t.Errorf("expected nil ResetExpires for NULL column, got %v", found.ResetExpires)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpdateUserPassword_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(7), "$2a$12$newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateUserPassword(context.Background(), 7, "$2a$12$newhash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateUserPassword_NoUser(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(42), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUserPassword(context.Background(), 42, "$2a$12$newhash")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpdateUserResetChallenge_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	expires := time.Now().Add(time.Hour)

	mock.ExpectExec("UPDATE users SET reset_password_token").
		WithArgs("$2a$12$tokenhash", expires, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateUserResetChallenge(context.Background(), 7, "$2a$12$tokenhash", expires); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClearResetChallenge_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET reset_password_token").
		WithArgs(nil, nil, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearResetChallenge(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClearExpiredResetChallenges(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("UPDATE users").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	cleared, err := repo.ClearExpiredResetChallenges(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared != 3 {
		t.Errorf("expected 3 cleared challenges, got %d", cleared)
	}
}

func TestListUsersWithActiveResetChallenge(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	expires := now.Add(30 * time.Minute)

	rows := sqlmock.
		NewRows([]string{
			"user_id", "email", "password_hash", "totp_secret", "totp_auth_url",
			"is_totp_enabled", "role", "google_id",
			"reset_password_token", "reset_password_expires", "created_at",
		}).
		AddRow(1, "alice@example.com", "$2a$12$h", nil, nil, true, models.RoleUser, nil, "$2a$12$t", expires, now)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(now).
		WillReturnRows(rows)

	users, err := repo.ListUsersWithActiveResetChallenge(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].ResetTokenHash != "$2a$12$t" {
		t.Errorf("expected reset token hash to be scanned, got %q", users[0].ResetTokenHash)
	}
	if users[0].ResetExpires == nil {
		t.Error("expected non-nil ResetExpires")
	}
}

func TestLinkGoogleID_AlreadyLinked(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(7), "google-sub-123").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	err := repo.LinkGoogleID(context.Background(), 7, "google-sub-123")
	if !errors.Is(err, ErrGoogleIDAlreadyLinked) {
		t.Fatalf("expected ErrGoogleIDAlreadyLinked, got %v", err)
	}
}
