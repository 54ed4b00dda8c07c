// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const userColumns = `user_id, email, password_hash, totp_secret, totp_auth_url, is_totp_enabled, role, google_id, reset_password_token, reset_password_expires, created_at`

const (
	createUser = `INSERT INTO users (email, password_hash, totp_secret, totp_auth_url, role)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING ` + userColumns + `;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE LOWER(email) = LOWER($1);`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	findUserByGoogleID = `SELECT ` + userColumns + `
    FROM users
    WHERE google_id = $1;`

	updateUserPassword = `UPDATE users
    SET password_hash = $2, reset_password_token = NULL, reset_password_expires = NULL
    WHERE user_id = $1;`

	linkGoogleID = `UPDATE users
    SET google_id = $2
    WHERE user_id = $1;`

	clearExpiredResetChallenges = `UPDATE users
    SET reset_password_token = NULL, reset_password_expires = NULL
    WHERE reset_password_expires IS NOT NULL AND reset_password_expires <= $1;`

	insertRecoveryCode = `INSERT INTO recovery_codes (user_id, code_hash)
    VALUES ($1, $2);`

	deleteRecoveryCodes = `DELETE FROM recovery_codes
    WHERE user_id = $1;`

	listRecoveryCodes = `SELECT id, user_id, code_hash, created_at
    FROM recovery_codes
    WHERE user_id = $1
    ORDER BY id;`

	consumeRecoveryCode = `DELETE FROM recovery_codes
    WHERE id = $1;`
)

// psql builds queries with PostgreSQL-style positional placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildUpdateResetChallengeQuery builds the UPDATE that arms or re-arms a
// user's password-reset challenge. A nil tokenHash clears the challenge.
func buildUpdateResetChallengeQuery(userID int64, tokenHash any, expires any) (string, []any, error) {
	return psql.
		Update("users").
		Set("reset_password_token", tokenHash).
		Set("reset_password_expires", expires).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// buildListActiveResetChallengesQuery builds the SELECT over users that
// currently hold an unexpired password-reset challenge.
func buildListActiveResetChallengesQuery(now any) (string, []any, error) {
	return psql.
		Select(
			"user_id", "email", "password_hash", "totp_secret", "totp_auth_url",
			"is_totp_enabled", "role", "google_id",
			"reset_password_token", "reset_password_expires", "created_at",
		).
		From("users").
		Where(sq.NotEq{"reset_password_token": nil}).
		Where(sq.Gt{"reset_password_expires": now}).
		OrderBy("reset_password_expires").
		ToSql()
}
