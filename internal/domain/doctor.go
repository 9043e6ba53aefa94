package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

const (
	minDoctorPatientLoad = 1
	maxDoctorPatientLoad = 50
)

// Doctor composes a Person with the doctor-specific profile. Patient load
// is mutated only through AssignPatient/ReleasePatient so the capacity
// guard cannot be bypassed by the assignment workflow.
type Doctor struct {
	Person
	Specialty          string
	LicenseNumber      string
	Available          bool
	CurrentPatientLoad int
	MaxPatientLoad     int
}

// NewDoctor creates a doctor with a fresh identity and an empty load.
func NewDoctor(email, name, specialty, licenseNumber string, maxPatientLoad int) (*Doctor, error) {
	person, err := NewPerson(email, name, RoleDoctor)
	if err != nil {
		return nil, err
	}
	if err := validateDoctorProfile(licenseNumber, 0, maxPatientLoad); err != nil {
		return nil, err
	}
	return &Doctor{
		Person:         person,
		Specialty:      strings.TrimSpace(specialty),
		LicenseNumber:  licenseNumber,
		Available:      true,
		MaxPatientLoad: maxPatientLoad,
	}, nil
}

// DoctorFromPersistence rebuilds a doctor from stored values. Load is
// validated against negative values only; a load above the maximum is
// tolerated here and caught at the next assignment attempt.
func DoctorFromPersistence(person Person, specialty, licenseNumber string, available bool, currentLoad, maxLoad int) (*Doctor, error) {
	if err := validateDoctorProfile(licenseNumber, currentLoad, maxLoad); err != nil {
		return nil, err
	}
	return &Doctor{
		Person:             person,
		Specialty:          specialty,
		LicenseNumber:      licenseNumber,
		Available:          available,
		CurrentPatientLoad: currentLoad,
		MaxPatientLoad:     maxLoad,
	}, nil
}

func validateDoctorProfile(licenseNumber string, currentLoad, maxLoad int) error {
	if len(licenseNumber) < 5 {
		return apperrors.NewValidationError("license number must be at least 5 characters", nil)
	}
	if currentLoad < 0 {
		return apperrors.NewValidationError("patient load cannot be negative", nil)
	}
	if maxLoad < minDoctorPatientLoad || maxLoad > maxDoctorPatientLoad {
		return apperrors.NewValidationError(
			fmt.Sprintf("max patient load must be between %d and %d", minDoctorPatientLoad, maxDoctorPatientLoad), nil)
	}
	return nil
}

// CanTakePatient reports whether the doctor may accept one more patient.
func (d *Doctor) CanTakePatient() bool {
	return d.Available && d.Status == AccountActive && d.CurrentPatientLoad < d.MaxPatientLoad
}

// AssignPatient increments the load after re-checking capacity. The
// re-check guards against stale reads between lookup and mutation.
func (d *Doctor) AssignPatient() error {
	if !d.CanTakePatient() {
		if d.CurrentPatientLoad >= d.MaxPatientLoad {
			return apperrors.NewConflict("doctor at maximum patient capacity", map[string]any{
				"doctorId": d.ID,
				"maxLoad":  d.MaxPatientLoad,
			})
		}
		return apperrors.NewConflict("doctor not available for assignment", map[string]any{"doctorId": d.ID})
	}
	d.CurrentPatientLoad++
	d.Touch()
	return nil
}

// ReleasePatient decrements the load, rejecting a double release.
func (d *Doctor) ReleasePatient() error {
	if d.CurrentPatientLoad == 0 {
		return apperrors.NewConflict("doctor has no patients to release", map[string]any{"doctorId": d.ID})
	}
	d.CurrentPatientLoad--
	d.Touch()
	return nil
}

// ToggleAvailability flips the manual on/off switch independent of load.
func (d *Doctor) ToggleAvailability() {
	d.Available = !d.Available
	d.Touch()
}
