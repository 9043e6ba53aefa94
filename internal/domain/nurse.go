package domain

import (
	"strings"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// NurseShift enumerates working shifts.
type NurseShift string

const (
	ShiftMorning   NurseShift = "morning"
	ShiftAfternoon NurseShift = "afternoon"
	ShiftNight     NurseShift = "night"
)

// Nurse composes a Person with the nurse-specific profile.
type Nurse struct {
	Person
	Area          string
	Shift         NurseShift
	LicenseNumber string
}

// NewNurse creates a nurse with a fresh identity.
func NewNurse(email, name, area string, shift NurseShift, licenseNumber string) (*Nurse, error) {
	person, err := NewPerson(email, name, RoleNurse)
	if err != nil {
		return nil, err
	}
	if err := validateNurseProfile(shift, licenseNumber); err != nil {
		return nil, err
	}
	return &Nurse{
		Person:        person,
		Area:          strings.TrimSpace(area),
		Shift:         shift,
		LicenseNumber: licenseNumber,
	}, nil
}

// NurseFromPersistence rebuilds a nurse from stored values.
func NurseFromPersistence(person Person, area string, shift NurseShift, licenseNumber string) (*Nurse, error) {
	if err := validateNurseProfile(shift, licenseNumber); err != nil {
		return nil, err
	}
	return &Nurse{Person: person, Area: area, Shift: shift, LicenseNumber: licenseNumber}, nil
}

func validateNurseProfile(shift NurseShift, licenseNumber string) error {
	switch shift {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
	default:
		return apperrors.NewValidationError("invalid shift", map[string]any{"shift": string(shift)})
	}
	if len(licenseNumber) < 5 {
		return apperrors.NewValidationError("license number must be at least 5 characters", nil)
	}
	return nil
}
