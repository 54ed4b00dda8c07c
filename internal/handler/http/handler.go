package http

import (
	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/service"
)

// developmentEnvironment enables error detail in 500 responses.
const developmentEnvironment = "development"

type Handler struct {
	services    *service.Services
	environment string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:    services,
		environment: cfg.Environment,
		logger:      logger,
	}
}
