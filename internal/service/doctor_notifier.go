package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/messaging"
)

// DoctorNotificationObserver maps triage events to outbound alert
// messages on the high-priority broadcast queue. Publish failures are
// logged and swallowed so notification trouble never fails the write
// path.
type DoctorNotificationObserver struct {
	publisher messaging.Publisher
	logger    *zap.Logger
	cfg       config.NotificationConfig
}

// NewDoctorNotificationObserver builds the observer.
func NewDoctorNotificationObserver(publisher messaging.Publisher, logger *zap.Logger, cfg config.NotificationConfig) *DoctorNotificationObserver {
	return &DoctorNotificationObserver{publisher: publisher, logger: logger, cfg: cfg}
}

// Name identifies the observer on the bus.
func (o *DoctorNotificationObserver) Name() string { return "doctor-notifications" }

// Update dispatches on the event type. Registration, critical vitals and
// reassignment always alert; a priority change alerts only when it is an
// escalation (lower numeric value means more severe). Everything else is
// ignored.
func (o *DoctorNotificationObserver) Update(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventPatientRegistered, events.EventCriticalVitalsDetected:
		o.publish(ctx, event)
	case events.EventCaseReassigned:
		o.publish(ctx, event)
	case events.EventPatientPriorityChanged:
		payload, ok := event.Payload.(events.PriorityChangedPayload)
		if ok && payload.NewPriority.MoreCriticalThan(payload.OldPriority) {
			o.publish(ctx, event)
		}
	}
	return nil
}

func (o *DoctorNotificationObserver) publish(ctx context.Context, event events.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		o.logger.Error("notify: marshal event", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	if err := o.publisher.PublishToQueue(ctx, o.cfg.DoctorAlertQueue, body); err != nil {
		o.logger.Error("notify: publish failed",
			zap.String("queue", o.cfg.DoctorAlertQueue),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
