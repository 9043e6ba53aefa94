package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
)

func newNotifierFixture() (*DoctorNotificationObserver, *fakePublisher) {
	publisher := &fakePublisher{}
	observer := NewDoctorNotificationObserver(publisher, zap.NewNop(), config.NotificationConfig{
		DoctorAlertQueue: "doctor-alerts",
	})
	return observer, publisher
}

func TestDoctorNotifier_AlwaysAlertingEvents(t *testing.T) {
	observer, publisher := newNotifierFixture()
	ctx := context.Background()

	require.NoError(t, observer.Update(ctx, events.NewPatientRegistered("p-1", "Juan", domain.PriorityP2, "nurse-1")))
	require.NoError(t, observer.Update(ctx, events.NewCriticalVitalsDetected("p-1", domain.VitalSigns{}, domain.PriorityP1)))
	require.NoError(t, observer.Update(ctx, events.NewCaseReassigned("p-1", "doc-1", "doc-2", "Dr. Lopez", "admin-1")))

	require.Len(t, publisher.messages, 3)
	for _, msg := range publisher.messages {
		assert.Equal(t, "doctor-alerts", msg.queue)
	}
}

func TestDoctorNotifier_PriorityChangePublishesOnlyEscalations(t *testing.T) {
	observer, publisher := newNotifierFixture()
	ctx := context.Background()

	// P3 -> P1 is an escalation.
	require.NoError(t, observer.Update(ctx, events.NewPriorityChanged("p-1", domain.PriorityP3, domain.PriorityP1, "doc-1", "")))
	assert.Len(t, publisher.messages, 1)

	// P1 -> P3 is a de-escalation, P2 -> P2 is no change.
	require.NoError(t, observer.Update(ctx, events.NewPriorityChanged("p-1", domain.PriorityP1, domain.PriorityP3, "doc-1", "")))
	require.NoError(t, observer.Update(ctx, events.NewPriorityChanged("p-1", domain.PriorityP2, domain.PriorityP2, "doc-1", "")))
	assert.Len(t, publisher.messages, 1)
}

func TestDoctorNotifier_IgnoresNonAlertingEvents(t *testing.T) {
	observer, publisher := newNotifierFixture()
	ctx := context.Background()

	require.NoError(t, observer.Update(ctx, events.NewCaseAssigned("p-1", "doc-1", "Dr. Garcia", "")))
	require.NoError(t, observer.Update(ctx, events.NewPatientDischarged("p-1", domain.ProcessDischarge, "")))
	assert.Empty(t, publisher.messages)
}

func TestDoctorNotifier_PublishFailureIsSwallowed(t *testing.T) {
	observer, publisher := newNotifierFixture()
	publisher.publishErr = errors.New("broker down")

	err := observer.Update(context.Background(), events.NewCriticalVitalsDetected("p-1", domain.VitalSigns{}, domain.PriorityP1))
	assert.NoError(t, err)
}

func TestDoctorNotifier_MessageCarriesWireFormat(t *testing.T) {
	observer, publisher := newNotifierFixture()

	event := events.NewPatientRegistered("p-1", "Juan", domain.PriorityP2, "nurse-1")
	require.NoError(t, observer.Update(context.Background(), event))
	require.Len(t, publisher.messages, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(publisher.messages[0].payload, &decoded))
	assert.Equal(t, event.ID, decoded["eventId"])
	assert.Equal(t, "PATIENT_REGISTERED", decoded["eventType"])
	assert.Equal(t, "p-1", decoded["patientId"])
}
