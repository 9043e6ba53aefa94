package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
)

func TestMetricsObserver_CountsPerEventType(t *testing.T) {
	metrics := observability.NewMetrics()
	observer := NewMetricsObserver(metrics)
	ctx := context.Background()

	require.NoError(t, observer.Update(ctx, events.NewPatientRegistered("p-1", "Juan", domain.PriorityP2, "")))
	require.NoError(t, observer.Update(ctx, events.NewPatientRegistered("p-2", "Ana", domain.PriorityP3, "")))
	require.NoError(t, observer.Update(ctx, events.NewPatientDischarged("p-1", domain.ProcessDischarge, "")))

	assert.Equal(t, int64(2), metrics.EventCount(string(events.EventPatientRegistered)))
	assert.Equal(t, int64(1), metrics.EventCount(string(events.EventPatientDischarged)))
	assert.Zero(t, metrics.EventCount(string(events.EventCaseAssigned)))
}
