package workers

import (
	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles all background workers of the auth backend.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	logger.Info().Msg("creating background workers...")

	return &Workers{
		workers: []Worker{
			newResetSweeper(storages.UserRepository, storages.Classifier, cfg.ResetSweepInterval, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
