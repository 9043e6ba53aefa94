package dto

import (
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterDoctorRequest payload.
type RegisterDoctorRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name" validate:"required,min=2"`
	Password       string `json:"password" validate:"required,min=8"`
	Specialty      string `json:"specialty" validate:"required"`
	LicenseNumber  string `json:"license_number" validate:"required,min=5"`
	MaxPatientLoad int    `json:"max_patient_load" validate:"required,gte=1,lte=50"`
}

// RegisterNurseRequest payload.
type RegisterNurseRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Name          string `json:"name" validate:"required,min=2"`
	Password      string `json:"password" validate:"required,min=8"`
	Area          string `json:"area" validate:"required"`
	Shift         string `json:"shift" validate:"required,oneof=morning afternoon night"`
	LicenseNumber string `json:"license_number" validate:"required,min=5"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserResponse represents a staff account.
type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// FromPerson maps the account into the response shape.
func FromPerson(p *domain.Person) UserResponse {
	return UserResponse{
		ID:     p.ID,
		Email:  p.Email,
		Name:   p.Name,
		Role:   string(p.Role),
		Status: string(p.Status),
	}
}
