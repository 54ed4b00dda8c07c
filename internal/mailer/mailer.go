// Package mailer delivers password-reset emails over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/logger"
	"gopkg.in/gomail.v2"
)

// ResetMailer delivers a password-reset link to a user.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to string, resetURL string) error
}

// Mailer sends mail through an SMTP relay using gomail.
type Mailer struct {
	cfg    config.SMTP
	dialer *gomail.Dialer
	logger *logger.Logger
}

// NewMailer builds the ResetMailer for the given SMTP settings. When no SMTP
// host is configured the returned mailer logs reset links instead of sending
// them, which keeps local development working without a relay.
func NewMailer(cfg config.SMTP, log *logger.Logger) ResetMailer {
	if cfg.Host == "" {
		log.Warn().Msg("SMTP host is not configured, password reset links will be logged instead of emailed")
		return &logMailer{logger: log}
	}

	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: log,
	}
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to string, resetURL string) error {
	msg := composeResetMessage(m.cfg.From, to, resetURL)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Err(err).Str("func", "*Mailer.SendPasswordReset").Msg("failed to send password reset email")
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

func composeResetMessage(from string, to string, resetURL string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Request")
	msg.SetBody("text/plain", fmt.Sprintf(
		"You requested a password reset.\n\n"+
			"Open the link below to choose a new password. The link is valid for one hour.\n\n"+
			"%s\n\n"+
			"If you did not request a reset, you can safely ignore this message.\n",
		resetURL,
	))

	return msg
}

// logMailer is the no-SMTP fallback used in development environments.
type logMailer struct {
	logger *logger.Logger
}

func (m *logMailer) SendPasswordReset(ctx context.Context, to string, resetURL string) error {
	m.logger.Info().
		Str("to", to).
		Str("reset_url", resetURL).
		Msg("password reset link (SMTP disabled)")

	return nil
}
