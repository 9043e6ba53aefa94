package dto

import (
	"github.com/spec-kit/triage-service/internal/domain"
)

// DoctorResponse represents an attending doctor.
type DoctorResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Specialty          string `json:"specialty"`
	LicenseNumber      string `json:"license_number"`
	Available          bool   `json:"available"`
	CurrentPatientLoad int    `json:"current_patient_load"`
	MaxPatientLoad     int    `json:"max_patient_load"`
	Status             string `json:"status"`
}

// NurseResponse represents a triage nurse.
type NurseResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Area          string `json:"area"`
	Shift         string `json:"shift"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status"`
}

// AssignmentResponse is returned when a doctor takes over a case.
type AssignmentResponse struct {
	Patient PatientResponse `json:"patient"`
	Doctor  DoctorResponse  `json:"doctor"`
}

// FromDoctor maps the aggregate into the response shape.
func FromDoctor(d *domain.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:                 d.ID,
		Email:              d.Email,
		Name:               d.Name,
		Specialty:          d.Specialty,
		LicenseNumber:      d.LicenseNumber,
		Available:          d.Available,
		CurrentPatientLoad: d.CurrentPatientLoad,
		MaxPatientLoad:     d.MaxPatientLoad,
		Status:             string(d.Status),
	}
}

// FromNurse maps the aggregate into the response shape.
func FromNurse(n *domain.Nurse) NurseResponse {
	return NurseResponse{
		ID:            n.ID,
		Email:         n.Email,
		Name:          n.Name,
		Area:          n.Area,
		Shift:         string(n.Shift),
		LicenseNumber: n.LicenseNumber,
		Status:        string(n.Status),
	}
}
