package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
)

func TestAuditObserver_RecordsActorPerEventType(t *testing.T) {
	cases := []struct {
		name  string
		event events.Event
		actor string
	}{
		{"registered", events.NewPatientRegistered("p-1", "Juan", domain.PriorityP2, "nurse-1"), "nurse-1"},
		{"priority changed", events.NewPriorityChanged("p-1", domain.PriorityP3, domain.PriorityP1, "doc-1", ""), "doc-1"},
		{"assigned", events.NewCaseAssigned("p-1", "doc-1", "Dr. Garcia", "admin-1"), "admin-1"},
		{"reassigned", events.NewCaseReassigned("p-1", "doc-1", "doc-2", "Dr. Lopez", "admin-1"), "admin-1"},
		{"discharged", events.NewPatientDischarged("p-1", domain.ProcessDischarge, "doc-1"), "doc-1"},
		{"critical vitals has no actor", events.NewCriticalVitalsDetected("p-1", domain.VitalSigns{}, domain.PriorityP1), events.SystemActor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeAuditRepo{}
			observer := NewAuditObserver(repo, zap.NewNop())

			require.NoError(t, observer.Update(context.Background(), tc.event))

			require.Len(t, repo.records, 1)
			record := repo.records[0]
			assert.Equal(t, tc.actor, record.UserID)
			assert.Equal(t, string(tc.event.Type), record.Action)
			assert.Equal(t, "p-1", record.PatientID)
			assert.Equal(t, tc.event.OccurredAt, record.Timestamp)
			assert.Contains(t, record.Details, string(tc.event.Type))
		})
	}
}

func TestAuditObserver_NeverSurfacesFailures(t *testing.T) {
	repo := &fakeAuditRepo{createErr: errors.New("audit store down")}
	observer := NewAuditObserver(repo, zap.NewNop())

	err := observer.Update(context.Background(), events.NewPatientRegistered("p-1", "Juan", domain.PriorityP2, ""))
	assert.NoError(t, err)
	assert.Empty(t, repo.records)
}

func TestAuditObserver_EmptyActorFallsBackToSystem(t *testing.T) {
	repo := &fakeAuditRepo{}
	observer := NewAuditObserver(repo, zap.NewNop())

	event := events.NewCaseAssigned("p-1", "doc-1", "Dr. Garcia", "")
	require.NoError(t, observer.Update(context.Background(), event))

	require.Len(t, repo.records, 1)
	assert.Equal(t, events.SystemActor, repo.records[0].UserID)
}
