package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

type patientFixture struct {
	svc      *PatientService
	patients *fakePatientRepo
	users    *fakeUserRepo
	comments *fakeCommentRepo
	vitals   *fakeVitalsRepo
	observer *recordingObserver
}

func newPatientFixture(t *testing.T) *patientFixture {
	t.Helper()
	patients := newFakePatientRepo()
	users := newFakeUserRepo()
	comments := &fakeCommentRepo{}
	vitals := &fakeVitalsRepo{}
	bus := events.NewBus(nil)
	observer := &recordingObserver{name: "recording"}
	bus.Attach(observer)

	return &patientFixture{
		svc: NewPatientService(PatientDependencies{
			PatientRepo: patients,
			UserRepo:    users,
			CommentRepo: comments,
			VitalsRepo:  vitals,
			Bus:         bus,
		}),
		patients: patients,
		users:    users,
		comments: comments,
		vitals:   vitals,
		observer: observer,
	}
}

func (f *patientFixture) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(f.observer.events))
	for _, event := range f.observer.events {
		types = append(types, event.Type)
	}
	return types
}

func urgentVitals() domain.VitalSigns {
	return domain.VitalSigns{
		HeartRate:        130,
		BloodPressure:    "160/100",
		Temperature:      37.2,
		OxygenSaturation: 92,
		RespiratoryRate:  28,
	}
}

func stableVitals() domain.VitalSigns {
	return domain.VitalSigns{
		HeartRate:        72,
		BloodPressure:    "120/80",
		Temperature:      36.6,
		OxygenSaturation: 98,
		RespiratoryRate:  16,
	}
}

func TestRegisterPatient_UrgentButNotCritical(t *testing.T) {
	f := newPatientFixture(t)

	patient, err := f.svc.RegisterPatient(context.Background(), RegisterPatientInput{
		Name:     "Juan Perez",
		Age:      55,
		Gender:   domain.GenderMale,
		Symptoms: []string{"chest pain", "shortness of breath"},
		Vitals:   urgentVitals(),
	}, "nurse-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusWaiting, patient.Status())
	assert.True(t, patient.Priority() <= domain.PriorityP2, "expected emergency band, got %s", patient.Priority())

	// Deranged but not alarm-level vitals: registration only.
	assert.Equal(t, []events.EventType{events.EventPatientRegistered}, f.eventTypes())
	payload := f.observer.events[0].Payload.(events.PatientRegisteredPayload)
	assert.Equal(t, "nurse-1", payload.RegisteredBy)

	require.Len(t, f.vitals.records, 1)
	assert.Equal(t, patient.ID(), f.vitals.records[0].PatientID)
}

func TestRegisterPatient_CriticalVitalsAlsoAlert(t *testing.T) {
	f := newPatientFixture(t)
	vitals := urgentVitals()
	vitals.OxygenSaturation = 85

	_, err := f.svc.RegisterPatient(context.Background(), RegisterPatientInput{
		Name:     "Ana Ruiz",
		Age:      70,
		Gender:   domain.GenderFemale,
		Symptoms: []string{"dyspnea"},
		Vitals:   vitals,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{
		events.EventPatientRegistered,
		events.EventCriticalVitalsDetected,
	}, f.eventTypes())
	assert.Equal(t, events.SystemActor, f.observer.events[0].Payload.(events.PatientRegisteredPayload).RegisteredBy)
}

func TestRegisterPatient_InvalidVitalsRejected(t *testing.T) {
	f := newPatientFixture(t)
	vitals := urgentVitals()
	vitals.HeartRate = 300

	_, err := f.svc.RegisterPatient(context.Background(), RegisterPatientInput{
		Name:     "Juan Perez",
		Age:      55,
		Gender:   domain.GenderMale,
		Symptoms: []string{"chest pain"},
		Vitals:   vitals,
	}, "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Empty(t, f.observer.events)
	assert.Empty(t, f.patients.patients)
}

func TestRegisterPatient_VitalsHistoryFailureDoesNotBlock(t *testing.T) {
	f := newPatientFixture(t)
	f.vitals.createErr = errors.New("history down")

	_, err := f.svc.RegisterPatient(context.Background(), RegisterPatientInput{
		Name:     "Juan Perez",
		Age:      55,
		Gender:   domain.GenderMale,
		Symptoms: []string{"chest pain"},
		Vitals:   urgentVitals(),
	}, "nurse-1")
	require.NoError(t, err)
	assert.Equal(t, []events.EventType{events.EventPatientRegistered}, f.eventTypes())
}

func registerStable(t *testing.T, f *patientFixture) *domain.Patient {
	t.Helper()
	patient, err := f.svc.RegisterPatient(context.Background(), RegisterPatientInput{
		Name:     "Pedro Gomez",
		Age:      40,
		Gender:   domain.GenderMale,
		Symptoms: []string{"sprained ankle"},
		Vitals:   stableVitals(),
	}, "nurse-1")
	require.NoError(t, err)
	f.observer.events = nil
	return patient
}

func TestUpdatePatientStatus_DischargeEmitsOnce(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)

	updated, err := f.svc.UpdatePatientStatus(context.Background(), patient.ID(), domain.StatusDischarged, "doc-1")
	require.NoError(t, err)
	first := updated.DischargeTime()
	require.NotNil(t, first)
	assert.Equal(t, []events.EventType{events.EventPatientDischarged}, f.eventTypes())

	updated, err = f.svc.UpdatePatientStatus(context.Background(), patient.ID(), domain.StatusDischarged, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, first, updated.DischargeTime())
	assert.Len(t, f.observer.events, 1, "repeat discharge must not re-emit")
}

func TestUpdatePatientStatus_NotFound(t *testing.T) {
	f := newPatientFixture(t)
	_, err := f.svc.UpdatePatientStatus(context.Background(), "missing", domain.StatusStabilized, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSetPatientProcess_DischargeDisposition(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)

	updated, err := f.svc.SetPatientProcess(context.Background(), patient.ID(), domain.ProcessDischarge, "home with instructions", "doc-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDischarged, updated.Status())
	assert.Equal(t, []events.EventType{events.EventPatientDischarged}, f.eventTypes())
	payload := f.observer.events[0].Payload.(events.PatientDischargedPayload)
	assert.Equal(t, domain.ProcessDischarge, payload.Process)
	assert.Equal(t, "doc-1", payload.DischargedBy)
}

func TestSetPatientProcess_ICUDoesNotEmitDischarge(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)

	updated, err := f.svc.SetPatientProcess(context.Background(), patient.ID(), domain.ProcessICU, "bed 4", "doc-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusUnderTreatment, updated.Status())
	assert.Empty(t, f.observer.events)
}

func TestSetManualPriority_EmitsOnlyWhenEffectiveMoves(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)
	automatic := patient.Priority()

	updated, err := f.svc.SetManualPriority(context.Background(), patient.ID(), domain.PriorityP1, "doc-1", "clinical judgement")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityP1, updated.Priority())
	require.Len(t, f.observer.events, 1)
	payload := f.observer.events[0].Payload.(events.PriorityChangedPayload)
	assert.Equal(t, automatic, payload.OldPriority)
	assert.Equal(t, domain.PriorityP1, payload.NewPriority)

	// Setting the same effective priority again changes nothing.
	f.observer.events = nil
	_, err = f.svc.SetManualPriority(context.Background(), patient.ID(), domain.PriorityP1, "doc-1", "again")
	require.NoError(t, err)
	assert.Empty(t, f.observer.events)
}

func TestClearManualPriority_RestoresAutomatic(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)
	automatic := patient.Priority()

	_, err := f.svc.SetManualPriority(context.Background(), patient.ID(), domain.PriorityP1, "doc-1", "")
	require.NoError(t, err)
	f.observer.events = nil

	updated, err := f.svc.ClearManualPriority(context.Background(), patient.ID(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, automatic, updated.Priority())
	assert.Nil(t, updated.ManualPriority())
	require.Len(t, f.observer.events, 1)
	assert.Equal(t, events.EventPatientPriorityChanged, f.observer.events[0].Type)
}

func TestUpdateVitals_EscalationAndCriticalAlert(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)

	critical := domain.VitalSigns{
		HeartRate:        150,
		BloodPressure:    "70/40",
		Temperature:      36.0,
		OxygenSaturation: 85,
		RespiratoryRate:  35,
	}
	updated, err := f.svc.UpdateVitals(context.Background(), patient.ID(), critical, "nurse-1")
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityP1, updated.Priority())
	assert.Equal(t, []events.EventType{
		events.EventPatientPriorityChanged,
		events.EventCriticalVitalsDetected,
	}, f.eventTypes())
	require.Len(t, f.vitals.records, 2)
}

func TestAddComment(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)

	author, err := domain.NewPerson("garcia@hospital.test", "Dr. Garcia", domain.RoleDoctor)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), &author))

	comment, err := f.svc.AddComment(context.Background(), AddCommentInput{
		PatientID: patient.ID(),
		AuthorID:  author.ID,
		Content:   "patient responding to treatment",
		Type:      domain.CommentObservation,
	})
	require.NoError(t, err)

	assert.Equal(t, patient.ID(), comment.PatientID)
	assert.Equal(t, author.Name, comment.AuthorName)
	assert.Equal(t, domain.RoleDoctor, comment.AuthorRole)
	require.Len(t, f.comments.comments, 1)

	reloaded, err := f.svc.GetPatient(context.Background(), patient.ID())
	require.NoError(t, err)
	assert.Len(t, reloaded.Comments(), 1)
}

func TestAddComment_UnknownAuthor(t *testing.T) {
	f := newPatientFixture(t)
	patient := registerStable(t, f)

	_, err := f.svc.AddComment(context.Background(), AddCommentInput{
		PatientID: patient.ID(),
		AuthorID:  "ghost",
		Content:   "should not be recorded",
		Type:      domain.CommentObservation,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.comments.comments)
}
