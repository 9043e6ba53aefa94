package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/repository"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// AssignmentService handles doctor assignment and reassignment.
type AssignmentService struct {
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	bus      *events.Bus
	logger   *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	PatientRepo repository.PatientRepository
	DoctorRepo  repository.DoctorRepository
	Bus         *events.Bus
	Logger      *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		patients: deps.PatientRepo,
		doctors:  deps.DoctorRepo,
		bus:      deps.Bus,
		logger:   logger,
	}
}

// AssignmentResult returns both updated aggregates.
type AssignmentResult struct {
	Patient *domain.Patient
	Doctor  *domain.Doctor
}

// AssignDoctorToPatient attaches a doctor to a patient's case, handling
// both first assignment and reassignment. First assignments enforce the
// capacity check up front; reassignments rely on the capacity guard
// inside Doctor.AssignPatient.
func (s *AssignmentService) AssignDoctorToPatient(ctx context.Context, patientID, doctorID, actorID string) (*AssignmentResult, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient", map[string]any{"patientId": patientID})
		}
		return nil, apperrors.MapError(err)
	}

	doctor, err := s.resolveDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	isReassignment := patient.IsAssigned() && patient.AssignedDoctorID() != doctor.ID
	if patient.IsAssigned() && !isReassignment {
		return nil, apperrors.NewConflict("patient already assigned to this doctor", map[string]any{
			"patientId": patientID,
			"doctorId":  doctor.ID,
		})
	}

	if isReassignment {
		return s.reassign(ctx, patient, doctor, actorID)
	}

	if !doctor.CanTakePatient() {
		if doctor.CurrentPatientLoad >= doctor.MaxPatientLoad {
			return nil, apperrors.NewConflict("doctor at maximum patient capacity", map[string]any{
				"doctorId": doctor.ID,
				"maxLoad":  doctor.MaxPatientLoad,
			})
		}
		return nil, apperrors.NewConflict("doctor not available for assignment", map[string]any{"doctorId": doctor.ID})
	}

	if err := patient.AssignDoctor(doctor.ID, doctor.Name); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := doctor.AssignPatient(); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.notify(ctx, events.NewCaseAssigned(patient.ID(), doctor.ID, doctor.Name, actorID))
	return &AssignmentResult{Patient: patient, Doctor: doctor}, nil
}

func (s *AssignmentService) reassign(ctx context.Context, patient *domain.Patient, newDoctor *domain.Doctor, actorID string) (*AssignmentResult, error) {
	previousDoctorID := patient.AssignedDoctorID()

	// Best effort: a missing previous doctor must not block the handover.
	previous, err := s.doctors.GetByID(ctx, previousDoctorID)
	switch {
	case err == nil:
		if err := previous.ReleasePatient(); err != nil {
			s.logger.Warn("reassign: release previous doctor",
				zap.String("doctor_id", previousDoctorID), zap.Error(err))
		} else if err := s.doctors.Update(ctx, previous); err != nil {
			s.logger.Warn("reassign: persist previous doctor",
				zap.String("doctor_id", previousDoctorID), zap.Error(err))
		}
	case errors.Is(err, pgx.ErrNoRows):
		s.logger.Warn("reassign: previous doctor not found", zap.String("doctor_id", previousDoctorID))
	default:
		return nil, apperrors.MapError(err)
	}

	patient.ReassignDoctor(newDoctor.ID, newDoctor.Name)
	if err := newDoctor.AssignPatient(); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.doctors.Update(ctx, newDoctor); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.notify(ctx, events.NewCaseReassigned(patient.ID(), previousDoctorID, newDoctor.ID, newDoctor.Name, actorID))
	return &AssignmentResult{Patient: patient, Doctor: newDoctor}, nil
}

// resolveDoctor looks the doctor up by id, falling back to the
// underlying account id when the record is keyed that way.
func (s *AssignmentService) resolveDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err == nil {
		return doctor, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	doctor, err = s.doctors.GetByUserID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", map[string]any{"doctorId": doctorID})
		}
		return nil, apperrors.MapError(err)
	}
	return doctor, nil
}

// GetDoctor loads a doctor by record or account id.
func (s *AssignmentService) GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	return s.resolveDoctor(ctx, doctorID)
}

// ListDoctors returns doctors matching the filter.
func (s *AssignmentService) ListDoctors(ctx context.Context, filter repository.DoctorFilter) ([]*domain.Doctor, error) {
	doctors, err := s.doctors.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return doctors, nil
}

// ToggleDoctorAvailability flips the doctor's manual availability switch.
func (s *AssignmentService) ToggleDoctorAvailability(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	doctor, err := s.resolveDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	doctor.ToggleAvailability()
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, apperrors.MapError(err)
	}
	return doctor, nil
}

func (s *AssignmentService) notify(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Notify(ctx, event)
}
