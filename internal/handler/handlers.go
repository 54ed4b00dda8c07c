package handler

import (
	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/handler/grpc"
	"github.com/MKhiriev/go-budget-auth/internal/handler/http"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.App, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
