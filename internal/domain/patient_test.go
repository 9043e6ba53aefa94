package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

func newTestPatient(t *testing.T) *Patient {
	t.Helper()
	patient, err := NewPatient("Juan Perez", 55, GenderMale, []string{"chest pain"}, VitalSigns{
		HeartRate:        130,
		BloodPressure:    "160/100",
		Temperature:      37.2,
		OxygenSaturation: 92,
		RespiratoryRate:  28,
	})
	require.NoError(t, err)
	return patient
}

func TestNewPatient_StartsWaitingWithComputedPriority(t *testing.T) {
	patient := newTestPatient(t)

	assert.Equal(t, StatusWaiting, patient.Status())
	assert.Equal(t, ProcessNone, patient.Process())
	assert.True(t, patient.Priority() <= PriorityP2, "expected emergency band, got %s", patient.Priority())
	assert.Nil(t, patient.ManualPriority())
	assert.Empty(t, patient.Comments())
	assert.False(t, patient.IsAssigned())
	assert.NotEmpty(t, patient.ID())
}

func TestNewPatient_Validation(t *testing.T) {
	vitals := validVitals()

	_, err := NewPatient("J", 30, GenderMale, []string{"cough"}, vitals)
	assert.Error(t, err)

	_, err = NewPatient("Jane Doe", -1, GenderFemale, []string{"cough"}, vitals)
	assert.Error(t, err)

	_, err = NewPatient("Jane Doe", 30, Gender("unknown"), []string{"cough"}, vitals)
	assert.Error(t, err)

	_, err = NewPatient("Jane Doe", 30, GenderFemale, nil, vitals)
	assert.Error(t, err)

	vitals.HeartRate = 300
	_, err = NewPatient("Jane Doe", 30, GenderFemale, []string{"cough"}, vitals)
	assert.Error(t, err)
}

func TestAssignDoctor(t *testing.T) {
	patient := newTestPatient(t)

	require.NoError(t, patient.AssignDoctor("doc-1", "Dr. Garcia"))
	assert.Equal(t, StatusInProgress, patient.Status())
	assert.Equal(t, "doc-1", patient.AssignedDoctorID())
	assert.Equal(t, "Dr. Garcia", patient.AssignedDoctorName())
	require.NotNil(t, patient.TreatmentStartTime())

	err := patient.AssignDoctor("doc-2", "Dr. Lopez")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	assert.Equal(t, "doc-1", patient.AssignedDoctorID())
}

func TestReassignDoctor_SwapsWithoutStatusChange(t *testing.T) {
	patient := newTestPatient(t)
	require.NoError(t, patient.AssignDoctor("doc-1", "Dr. Garcia"))
	require.NoError(t, patient.UpdateStatus(StatusUnderTreatment))

	patient.ReassignDoctor("doc-2", "Dr. Lopez")

	assert.Equal(t, "doc-2", patient.AssignedDoctorID())
	assert.Equal(t, StatusUnderTreatment, patient.Status())
}

func TestUpdateStatus_DischargeTimestampIsStampedOnce(t *testing.T) {
	patient := newTestPatient(t)

	require.NoError(t, patient.UpdateStatus(StatusDischarged))
	first := patient.DischargeTime()
	require.NotNil(t, first)

	require.NoError(t, patient.UpdateStatus(StatusDischarged))
	assert.Equal(t, first, patient.DischargeTime())
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	patient := newTestPatient(t)
	err := patient.UpdateStatus(PatientStatus("LOST"))
	require.Error(t, err)
	assert.Equal(t, StatusWaiting, patient.Status())
}

func TestSetProcess_DrivesStatusTransitions(t *testing.T) {
	cases := []struct {
		process ProcessType
		status  PatientStatus
	}{
		{ProcessDischarge, StatusDischarged},
		{ProcessICU, StatusUnderTreatment},
		{ProcessHospitalization, StatusUnderTreatment},
		{ProcessHospitalizationDays, StatusUnderTreatment},
		{ProcessReferral, StatusTransferred},
	}

	for _, tc := range cases {
		t.Run(string(tc.process), func(t *testing.T) {
			patient := newTestPatient(t)
			require.NoError(t, patient.SetProcess(tc.process, "details"))
			assert.Equal(t, tc.process, patient.Process())
			assert.Equal(t, tc.status, patient.Status())
		})
	}
}

func TestSetProcess_InvalidProcess(t *testing.T) {
	patient := newTestPatient(t)
	assert.Error(t, patient.SetProcess(ProcessType("SURGERY"), ""))
}

func TestClearProcess_KeepsStatus(t *testing.T) {
	patient := newTestPatient(t)
	require.NoError(t, patient.SetProcess(ProcessICU, "bed 4"))

	patient.ClearProcess()

	assert.Equal(t, ProcessNone, patient.Process())
	assert.Empty(t, patient.ProcessDetails())
	assert.Equal(t, StatusUnderTreatment, patient.Status())
}

func TestManualPriority_OverridesAndClears(t *testing.T) {
	patient := newTestPatient(t)
	automatic := patient.AutomaticPriority()

	require.NoError(t, patient.SetManualPriority(PriorityP4))
	assert.Equal(t, PriorityP4, patient.Priority())
	assert.Equal(t, automatic, patient.AutomaticPriority())

	patient.ClearManualPriority()
	assert.Equal(t, automatic, patient.Priority())
	assert.Nil(t, patient.ManualPriority())
}

func TestManualPriority_RejectsInvalid(t *testing.T) {
	patient := newTestPatient(t)
	assert.Error(t, patient.SetManualPriority(Priority(0)))
	assert.Error(t, patient.SetManualPriority(Priority(6)))
}

func TestUpdateVitals_RecomputesAutomaticButKeepsOverride(t *testing.T) {
	patient := newTestPatient(t)
	require.NoError(t, patient.SetManualPriority(PriorityP5))

	require.NoError(t, patient.UpdateVitals(VitalSigns{
		HeartRate:        150,
		BloodPressure:    "70/40",
		Temperature:      36.0,
		OxygenSaturation: 85,
		RespiratoryRate:  35,
	}))

	assert.Equal(t, PriorityP1, patient.AutomaticPriority())
	assert.Equal(t, PriorityP5, patient.Priority())
}

func TestAddComment_OwnershipEnforced(t *testing.T) {
	patient := newTestPatient(t)

	own, err := NewPatientComment(patient.ID(), "user-1", "Dr. Garcia", RoleDoctor, "stable, monitoring", CommentObservation)
	require.NoError(t, err)
	require.NoError(t, patient.AddComment(*own))
	assert.Len(t, patient.Comments(), 1)

	foreign, err := NewPatientComment("other-patient", "user-1", "Dr. Garcia", RoleDoctor, "stable, monitoring", CommentObservation)
	require.NoError(t, err)
	err = patient.AddComment(*foreign)
	require.Error(t, err)
	assert.Len(t, patient.Comments(), 1)
}

func TestSymptomsAndComments_ReturnCopies(t *testing.T) {
	patient := newTestPatient(t)

	symptoms := patient.Symptoms()
	symptoms[0] = "mutated"
	assert.Equal(t, "chest pain", patient.Symptoms()[0])
}

func TestSnapshotRoundTrip(t *testing.T) {
	patient := newTestPatient(t)
	require.NoError(t, patient.AssignDoctor("doc-1", "Dr. Garcia"))
	require.NoError(t, patient.SetManualPriority(PriorityP2))

	rebuilt, err := PatientFromRecord(patient.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, patient.ID(), rebuilt.ID())
	assert.Equal(t, patient.Status(), rebuilt.Status())
	assert.Equal(t, patient.Priority(), rebuilt.Priority())
	assert.Equal(t, patient.AutomaticPriority(), rebuilt.AutomaticPriority())
	assert.Equal(t, patient.AssignedDoctorID(), rebuilt.AssignedDoctorID())
}

func TestPatientFromRecord_Validation(t *testing.T) {
	rec := newTestPatient(t).Snapshot()

	rec.Status = PatientStatus("BOGUS")
	_, err := PatientFromRecord(rec)
	assert.Error(t, err)

	rec = newTestPatient(t).Snapshot()
	rec.ID = ""
	_, err = PatientFromRecord(rec)
	assert.Error(t, err)
}
