package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/rag-chat-service/internal/events"
)

// StartAuditWorker subscribes an audit-log handler to every domain event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	handler := func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Time("timestamp", event.Timestamp),
		}
		if event.ActorID != "" {
			fields = append(fields, zap.String("actor_id", event.ActorID))
		}
		if event.TenantID != nil {
			fields = append(fields, zap.String("tenant_id", *event.TenantID))
		}
		logger.Info("audit", fields...)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventUserCreated,
		events.EventUserLoggedIn,
		events.EventTenantCreated,
		events.EventMessageAdded,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
