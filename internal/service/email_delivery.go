package service

import (
	"context"

	"github.com/rs/zerolog"
)

// EmailDelivery hands a notification off to the outbound mail collaborator.
// Delivery is fire-and-forget: callers log and discard errors.
type EmailDelivery interface {
	Deliver(ctx context.Context, recipient, subject, body string) error
}

// LogEmailDelivery is a basic provider that logs outbound mail instead of
// sending it. Used in development and as the default when no mail relay is
// configured.
type LogEmailDelivery struct {
	logger zerolog.Logger
}

// NewLogEmailDelivery constructs a logging provider.
func NewLogEmailDelivery(logger zerolog.Logger) *LogEmailDelivery {
	return &LogEmailDelivery{logger: logger.With().Str("component", "email_delivery").Logger()}
}

// Deliver logs the outbound message and returns nil to indicate success.
func (l *LogEmailDelivery) Deliver(ctx context.Context, recipient, subject, body string) error {
	l.logger.Info().Str("recipient", recipient).Str("subject", subject).Msg("email handed to delivery relay")
	return nil
}
