package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/models"
)

type recoveryCodeRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewRecoveryCodeRepository(db *DB, logger *logger.Logger) RecoveryCodeRepository {
	logger.Debug().Msg("RecoveryCodeRepository created")
	return &recoveryCodeRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceCodes atomically swaps the user's full set of recovery codes.
// Old codes become unusable the moment the transaction commits.
func (r *recoveryCodeRepository) ReplaceCodes(ctx context.Context, userID int64, codeHashes []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "*recoveryCodeRepository.ReplaceCodes").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteRecoveryCodes, userID); err != nil {
		r.logger.Err(err).Str("func", "*recoveryCodeRepository.ReplaceCodes").Int64("user_id", userID).Msg("error deleting old recovery codes")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, hash := range codeHashes {
		if _, err := tx.ExecContext(ctx, insertRecoveryCode, userID, hash); err != nil {
			r.logger.Err(err).Str("func", "*recoveryCodeRepository.ReplaceCodes").Int64("user_id", userID).Msg("error inserting recovery code")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *recoveryCodeRepository) ListCodes(ctx context.Context, userID int64) ([]models.RecoveryCode, error) {
	rows, err := r.db.QueryContext(ctx, listRecoveryCodes, userID)
	if err != nil {
		r.logger.Err(err).Str("func", "*recoveryCodeRepository.ListCodes").Int64("user_id", userID).Msg("error listing recovery codes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var codes []models.RecoveryCode
	for rows.Next() {
		var code models.RecoveryCode
		if err := rows.Scan(&code.ID, &code.UserID, &code.CodeHash, &code.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return codes, nil
}

func (r *recoveryCodeRepository) ConsumeCode(ctx context.Context, codeID int64) error {
	result, err := r.db.ExecContext(ctx, consumeRecoveryCode, codeID)
	if err != nil {
		r.logger.Err(err).Str("func", "*recoveryCodeRepository.ConsumeCode").Int64("code_id", codeID).Msg("error consuming recovery code")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecoveryCodeNotFound
	}

	return nil
}
