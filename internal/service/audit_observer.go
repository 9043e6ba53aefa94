package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/repository"
)

// AuditObserver writes an append-only audit record for every triage
// event. Its contract is to never surface a failure: persistence errors
// are logged and swallowed.
type AuditObserver struct {
	audit  repository.AuditRepository
	logger *zap.Logger
}

// NewAuditObserver builds the observer.
func NewAuditObserver(audit repository.AuditRepository, logger *zap.Logger) *AuditObserver {
	return &AuditObserver{audit: audit, logger: logger}
}

// Name identifies the observer on the bus.
func (o *AuditObserver) Name() string { return "audit" }

// Update maps the event to an audit record and persists it. Always
// returns nil.
func (o *AuditObserver) Update(ctx context.Context, event events.Event) error {
	details, err := json.Marshal(event)
	if err != nil {
		o.logger.Error("audit: marshal event", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}

	record := &domain.AuditRecord{
		ID:        uuid.NewString(),
		UserID:    eventActor(event),
		Action:    string(event.Type),
		PatientID: event.PatientID,
		Details:   string(details),
		Timestamp: event.OccurredAt,
	}
	if err := o.audit.Create(ctx, record); err != nil {
		o.logger.Error("audit: persist record",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// eventActor extracts the acting user per event type, defaulting to the
// system actor.
func eventActor(event events.Event) string {
	switch payload := event.Payload.(type) {
	case events.PatientRegisteredPayload:
		if payload.RegisteredBy != "" {
			return payload.RegisteredBy
		}
	case events.PriorityChangedPayload:
		if payload.ChangedBy != "" {
			return payload.ChangedBy
		}
	case events.CaseAssignedPayload:
		if payload.AssignedBy != "" {
			return payload.AssignedBy
		}
	case events.CaseReassignedPayload:
		if payload.ReassignedBy != "" {
			return payload.ReassignedBy
		}
	case events.PatientDischargedPayload:
		if payload.DischargedBy != "" {
			return payload.DischargedBy
		}
	}
	return events.SystemActor
}
