package kafka

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/pkg/events"
	pkgkafka "github.com/aniketri/real-insights-data/pkg/kafka"
)

// OrganizationInvalidator drops an organization's cached results.
type OrganizationInvalidator interface {
	InvalidateOrganization(ctx context.Context, orgID uuid.UUID)
}

// InvalidationHandler returns a consumer handler that invalidates cached
// results when another instance changes loan data. Events published by this
// instance are skipped; the write path already invalidated locally.
// Undecodable messages are logged and acknowledged.
func InvalidationHandler(invalidator OrganizationInvalidator, instanceID string, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		if instanceID != "" && msg.Headers[HeaderInstanceID] == instanceID {
			return nil
		}

		env, err := events.DecodeEnvelope(msg.Value)
		if err != nil {
			logger.WarnContext(ctx, "skipping undecodable event", "error", err)
			return nil
		}
		if !event.IsLoanEvent(env.EventType) {
			return nil
		}
		if env.OrganizationID == uuid.Nil {
			logger.WarnContext(ctx, "loan event without organization", "event_id", env.EventID)
			return nil
		}

		invalidator.InvalidateOrganization(ctx, env.OrganizationID)
		logger.DebugContext(ctx, "cache invalidated from event",
			"event_type", env.EventType,
			"organization_id", env.OrganizationID,
		)
		return nil
	}
}
