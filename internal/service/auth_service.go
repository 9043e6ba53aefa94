package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/repository"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// AuthService coordinates staff account registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	doctors    repository.DoctorRepository
	nurses     repository.NurseRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	DoctorRepo repository.DoctorRepository
	NurseRepo  repository.NurseRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		doctors:    deps.DoctorRepo,
		nurses:     deps.NurseRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterDoctorInput describes a doctor account payload.
type RegisterDoctorInput struct {
	Email          string
	Name           string
	Password       string
	Specialty      string
	LicenseNumber  string
	MaxPatientLoad int
}

// RegisterDoctor creates a doctor account.
func (s *AuthService) RegisterDoctor(ctx context.Context, input RegisterDoctorInput) (*domain.Doctor, error) {
	if err := s.ensureEmailFree(ctx, input.Email); err != nil {
		return nil, err
	}
	doctor, err := domain.NewDoctor(input.Email, input.Name, input.Specialty, input.LicenseNumber, input.MaxPatientLoad)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	doctor.PasswordHash = hash

	if err := s.users.Create(ctx, &doctor.Person); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, apperrors.MapError(err)
	}
	return doctor, nil
}

// RegisterNurseInput describes a nurse account payload.
type RegisterNurseInput struct {
	Email         string
	Name          string
	Password      string
	Area          string
	Shift         domain.NurseShift
	LicenseNumber string
}

// RegisterNurse creates a nurse account.
func (s *AuthService) RegisterNurse(ctx context.Context, input RegisterNurseInput) (*domain.Nurse, error) {
	if err := s.ensureEmailFree(ctx, input.Email); err != nil {
		return nil, err
	}
	nurse, err := domain.NewNurse(input.Email, input.Name, input.Area, input.Shift, input.LicenseNumber)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	nurse.PasswordHash = hash

	if err := s.users.Create(ctx, &nurse.Person); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.nurses.Create(ctx, nurse); err != nil {
		return nil, apperrors.MapError(err)
	}
	return nurse, nil
}

// Login authenticates a staff account and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Person, string, time.Time, error) {
	person, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if person.Status != domain.AccountActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("account not active")
	}
	if err := auth.ComparePassword(person.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(person.ID, person.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return person, token, exp, nil
}

// ChangePassword rotates the caller's password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, personID, currentPassword, newPassword string) error {
	person, err := s.users.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"id": personID})
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(person.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	person.PasswordHash = hash
	person.Touch()
	if err := s.users.Update(ctx, person); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return apperrors.NewConflict("email already registered", map[string]any{"email": email})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}
