// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"github.com/MKhiriev/go-budget-auth/internal/store"
)

const (
	defaultSweepInterval = 10 * time.Minute
	sweepRetryDelay      = 5 * time.Second
	sweepMaxAttempts     = 3
)

// resetSweeper periodically clears password-reset challenges whose deadline
// has passed, so that stale tokens cannot linger in the users table.
//
// Expired challenges are already unusable for resetting a password: the sweep
// exists for hygiene, not correctness.
type resetSweeper struct {
	users      store.UserRepository
	classifier store.ErrorClassificator

	interval   time.Duration
	retryDelay time.Duration
	now        func() time.Time

	logger *logger.Logger
}

func newResetSweeper(users store.UserRepository, classifier store.ErrorClassificator, interval time.Duration, logger *logger.Logger) *resetSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &resetSweeper{
		users:      users,
		classifier: classifier,
		interval:   interval,
		retryDelay: sweepRetryDelay,
		now:        time.Now,
		logger:     logger,
	}
}

// Run starts the sweep loop in a background goroutine.
func (s *resetSweeper) Run() {
	s.logger.Info().Msgf("reset sweeper started, interval=%s", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for range ticker.C {
			s.sweepOnce(context.Background())
		}
	}()
}

// sweepOnce performs a single cleanup pass. Transient database errors are
// retried a few times before giving up until the next tick.
func (s *resetSweeper) sweepOnce(ctx context.Context) {
	for attempt := 1; attempt <= sweepMaxAttempts; attempt++ {
		cleared, err := s.users.ClearExpiredResetChallenges(ctx, s.now())
		if err == nil {
			if cleared > 0 {
				s.logger.Info().Msgf("reset sweeper: cleared %d expired reset challenge(s)", cleared)
			}
			return
		}

		if s.classifier.Classify(err) != store.Retryable {
			s.logger.Error().Msgf("reset sweeper: sweep failed: %v", err)
			return
		}

		s.logger.Warn().Msgf("reset sweeper: transient error on attempt %d/%d: %v", attempt, sweepMaxAttempts, err)
		if attempt < sweepMaxAttempts {
			time.Sleep(s.retryDelay)
		}
	}
}
