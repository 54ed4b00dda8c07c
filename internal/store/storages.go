package store

import (
	"github.com/MKhiriev/go-budget-auth/internal/logger"
)

// Storages bundles all repositories backed by a single database connection.
type Storages struct {
	UserRepository         UserRepository
	RecoveryCodeRepository RecoveryCodeRepository
	Classifier             ErrorClassificator
}

func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:         NewUserRepository(db, logger),
		RecoveryCodeRepository: NewRecoveryCodeRepository(db, logger),
		Classifier:             db.errorClassificator,
	}
}
