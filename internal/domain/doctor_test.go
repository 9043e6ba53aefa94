package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

func newTestDoctor(t *testing.T, maxLoad int) *Doctor {
	t.Helper()
	doctor, err := NewDoctor("garcia@hospital.test", "Dr. Garcia", "cardiology", "LIC-12345", maxLoad)
	require.NoError(t, err)
	return doctor
}

func TestNewDoctor_Defaults(t *testing.T) {
	doctor := newTestDoctor(t, 3)

	assert.Equal(t, RoleDoctor, doctor.Role)
	assert.Equal(t, AccountActive, doctor.Status)
	assert.True(t, doctor.Available)
	assert.Zero(t, doctor.CurrentPatientLoad)
	assert.Equal(t, 3, doctor.MaxPatientLoad)
}

func TestNewDoctor_Validation(t *testing.T) {
	_, err := NewDoctor("garcia@hospital.test", "Dr. Garcia", "cardiology", "LIC", 3)
	assert.Error(t, err, "short license number")

	_, err = NewDoctor("garcia@hospital.test", "Dr. Garcia", "cardiology", "LIC-12345", 0)
	assert.Error(t, err, "zero max load")

	_, err = NewDoctor("garcia@hospital.test", "Dr. Garcia", "cardiology", "LIC-12345", 51)
	assert.Error(t, err, "max load above cap")
}

func TestCanTakePatient(t *testing.T) {
	doctor := newTestDoctor(t, 2)
	assert.True(t, doctor.CanTakePatient())

	doctor.Available = false
	assert.False(t, doctor.CanTakePatient())

	doctor.Available = true
	doctor.Status = AccountSuspended
	assert.False(t, doctor.CanTakePatient())

	doctor.Status = AccountActive
	doctor.CurrentPatientLoad = 2
	assert.False(t, doctor.CanTakePatient())
}

func TestAssignPatient_UpToCapacity(t *testing.T) {
	doctor := newTestDoctor(t, 2)

	require.NoError(t, doctor.AssignPatient())
	require.NoError(t, doctor.AssignPatient())
	assert.Equal(t, 2, doctor.CurrentPatientLoad)

	err := doctor.AssignPatient()
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	assert.Equal(t, 2, doctor.CurrentPatientLoad)
}

func TestAssignPatient_WhenUnavailable(t *testing.T) {
	doctor := newTestDoctor(t, 2)
	doctor.Available = false

	err := doctor.AssignPatient()
	require.Error(t, err)
	assert.Zero(t, doctor.CurrentPatientLoad)
}

func TestReleasePatient_GuardsDoubleRelease(t *testing.T) {
	doctor := newTestDoctor(t, 2)
	require.NoError(t, doctor.AssignPatient())

	require.NoError(t, doctor.ReleasePatient())
	assert.Zero(t, doctor.CurrentPatientLoad)

	err := doctor.ReleasePatient()
	require.Error(t, err)
	assert.Zero(t, doctor.CurrentPatientLoad)
}

func TestReleaseThenAssignAgain(t *testing.T) {
	doctor := newTestDoctor(t, 1)
	require.NoError(t, doctor.AssignPatient())
	assert.False(t, doctor.CanTakePatient())

	require.NoError(t, doctor.ReleasePatient())
	assert.True(t, doctor.CanTakePatient())
	require.NoError(t, doctor.AssignPatient())
}

func TestToggleAvailability(t *testing.T) {
	doctor := newTestDoctor(t, 2)

	doctor.ToggleAvailability()
	assert.False(t, doctor.Available)

	doctor.ToggleAvailability()
	assert.True(t, doctor.Available)
}
