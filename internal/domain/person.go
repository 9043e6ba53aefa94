package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// Role enumerates the clinical staff roles known to the system.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDoctor Role = "DOCTOR"
	RoleNurse  Role = "NURSE"
)

// AccountStatus represents lifecycle states for a staff account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountInactive  AccountStatus = "INACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// Person carries the identity shared by every staff member. Doctors and
// nurses embed it; role-specific data lives in their own profile fields.
type Person struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	Status       AccountStatus
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPerson validates identity fields and assigns a generated id.
func NewPerson(email, name string, role Role) (Person, error) {
	if err := validatePerson(email, name, role, AccountActive); err != nil {
		return Person{}, err
	}
	now := time.Now()
	return Person{
		ID:        uuid.NewString(),
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Role:      role,
		Status:    AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PersonFromPersistence rebuilds a Person from stored values. The id is
// kept as-is and never regenerated.
func PersonFromPersistence(id, email, name string, role Role, status AccountStatus, createdAt, updatedAt time.Time) (Person, error) {
	if id == "" {
		return Person{}, apperrors.NewValidationError("person id required", nil)
	}
	if err := validatePerson(email, name, role, status); err != nil {
		return Person{}, err
	}
	return Person{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      role,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func validatePerson(email, name string, role Role, status AccountStatus) error {
	if !strings.Contains(email, "@") {
		return apperrors.NewValidationError("invalid email", map[string]any{"email": email})
	}
	if len(strings.TrimSpace(name)) < 2 {
		return apperrors.NewValidationError("name must be at least 2 characters", nil)
	}
	switch role {
	case RoleAdmin, RoleDoctor, RoleNurse:
	default:
		return apperrors.NewValidationError("invalid role", map[string]any{"role": string(role)})
	}
	switch status {
	case AccountActive, AccountInactive, AccountSuspended:
	default:
		return apperrors.NewValidationError("invalid account status", map[string]any{"status": string(status)})
	}
	return nil
}

// Touch bumps the modification timestamp after a mutation.
func (p *Person) Touch() {
	p.UpdatedAt = time.Now()
}
