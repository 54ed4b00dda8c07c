package service

import (
	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/mailer"
	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/internal/totp"
)

type Services struct {
	AuthService            AuthService
	PasswordResetService   PasswordResetService
	IdentityLinkingService IdentityLinkingService
	AppInfoService         AppInfoService
}

func NewServices(
	storages *store.Storages,
	resetMailer mailer.ResetMailer,
	googleValidator GoogleTokenValidator,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	totpEngine := totp.NewEngine(cfg.App.Name)

	return &Services{
		AuthService:            NewAuthService(storages.UserRepository, storages.RecoveryCodeRepository, totpEngine, cfg.Auth, logger),
		PasswordResetService:   NewPasswordResetService(storages.UserRepository, resetMailer, cfg.App, logger),
		IdentityLinkingService: NewIdentityLinkingService(storages.UserRepository, googleValidator, cfg.Auth, logger),
		AppInfoService:         appInfoService,
	}, nil
}
