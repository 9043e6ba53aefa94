package service

import (
	"context"

	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
)

// MetricsObserver counts published triage events per type.
type MetricsObserver struct {
	metrics *observability.Metrics
}

// NewMetricsObserver builds the observer.
func NewMetricsObserver(metrics *observability.Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: metrics}
}

// Name identifies the observer on the bus.
func (o *MetricsObserver) Name() string { return "metrics" }

// Update increments the counter for the event type.
func (o *MetricsObserver) Update(_ context.Context, event events.Event) error {
	o.metrics.RecordEvent(string(event.Type))
	return nil
}
