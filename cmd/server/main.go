package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/handler"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/mailer"
	"github.com/MKhiriev/go-budget-auth/internal/provider"
	"github.com/MKhiriev/go-budget-auth/internal/server"
	"github.com/MKhiriev/go-budget-auth/internal/service"
	"github.com/MKhiriev/go-budget-auth/internal/store"
	"github.com/MKhiriev/go-budget-auth/internal/workers"
	"github.com/MKhiriev/go-budget-auth/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	log := logger.NewLogger("budget-auth-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	db, err := store.NewConnectPostgres(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)

	resetMailer := mailer.NewMailer(cfg.SMTP, log)
	googleValidator := provider.NewGoogleOAuthProvider(cfg.Google)

	services, err := service.NewServices(storages, resetMailer, googleValidator, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	workers.NewWorkers(storages, cfg.Workers, log).Run()

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(info models.AppBuildInfo) {
	orNA := func(v string) string {
		if v == "" {
			return "N/A"
		}
		return v
	}

	fmt.Printf("Build version: %s\n", orNA(info.BuildVersion()))
	fmt.Printf("Build date: %s\n", orNA(info.BuildDate()))
	fmt.Printf("Build commit: %s\n", orNA(info.BuildCommit()))
}
