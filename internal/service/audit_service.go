package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/mall-service/internal/events"
)

// AuditService writes a structured audit line for every back-office mutation.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all audited event types.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventPasswordReset,
		events.EventCategoryCreated,
		events.EventCategoryRenamed,
		events.EventProductSaved,
		events.EventProductStatusChanged,
	} {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("actor_id", event.Actor.UserID),
		zap.String("actor_username", event.Actor.Username),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
