// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Defaults applied to fields left unset by every configuration source.
// Token lifetimes match the deployment defaults of the budgeting app:
// a one-hour full session and a ten-minute 2FA-pending window.
const (
	defaultAppName              = "Budgeting App"
	defaultTokenIssuer          = "go-budget-auth"
	defaultTokenDuration        = time.Hour
	defaultPendingTokenDuration = 10 * time.Minute
	defaultFrontendURL          = "http://localhost:3000"
	defaultResetSweepInterval   = 10 * time.Minute
)

// applyDefaults fills zero-valued fields with deployment defaults after all
// sources have been merged.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.Name == "" {
		cfg.App.Name = defaultAppName
	}
	if cfg.App.FrontendURL == "" {
		cfg.App.FrontendURL = defaultFrontendURL
	}
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = defaultTokenIssuer
	}
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = defaultTokenDuration
	}
	if cfg.Auth.PendingTokenDuration == 0 {
		cfg.Auth.PendingTokenDuration = defaultPendingTokenDuration
	}
	if cfg.Workers.ResetSweepInterval == 0 {
		cfg.Workers.ResetSweepInterval = defaultResetSweepInterval
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Auth.TokenSignKey == "" {
		return ErrInvalidAuthConfigs
	}

	if cfg.Auth.PendingTokenDuration > cfg.Auth.TokenDuration {
		return ErrInvalidAuthConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
