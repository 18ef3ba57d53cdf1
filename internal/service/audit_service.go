package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/config-manager/internal/events"
	"github.com/spec-kit/config-manager/internal/observability"
)

// AuditService turns authentication events into audit log lines and counters.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handleAccountRegistered)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
}

func (a *AuditService) handleAccountRegistered(_ context.Context, event events.Event) error {
	fields := a.baseFields(event)
	if p, ok := event.Payload.(events.AccountRegisteredPayload); ok {
		fields = append(fields, zap.String("role", string(p.Role)))
	}
	a.logger.Info("AccountRegistered", fields...)
	a.metrics.RecordAudit(string(event.Type))
	return nil
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	fields := a.baseFields(event)
	if p, ok := event.Payload.(events.LoginSucceededPayload); ok {
		fields = append(fields, zap.Time("token_expires_at", p.TokenExpiresAt))
	}
	a.logger.Info("LoginSucceeded", fields...)
	a.metrics.RecordAudit(string(event.Type))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	fields := a.baseFields(event)
	if p, ok := event.Payload.(events.LoginFailedPayload); ok {
		fields = append(fields, zap.String("reason", p.Reason))
	}
	a.logger.Warn("LoginFailed", fields...)
	a.metrics.RecordAudit(string(event.Type))
	return nil
}

func (a *AuditService) baseFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("username", event.Username),
		zap.Time("at", event.Timestamp),
	}
}
