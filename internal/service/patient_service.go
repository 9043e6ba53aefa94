package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/repository"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// PatientService coordinates the triage workflows around a patient.
type PatientService struct {
	patients repository.PatientRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	vitals   repository.VitalsRepository
	bus      *events.Bus
	logger   *zap.Logger
}

// PatientDependencies bundles repositories for the patient service.
type PatientDependencies struct {
	PatientRepo repository.PatientRepository
	UserRepo    repository.UserRepository
	CommentRepo repository.CommentRepository
	VitalsRepo  repository.VitalsRepository
	Bus         *events.Bus
	Logger      *zap.Logger
}

// NewPatientService constructs the service.
func NewPatientService(deps PatientDependencies) *PatientService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatientService{
		patients: deps.PatientRepo,
		users:    deps.UserRepo,
		comments: deps.CommentRepo,
		vitals:   deps.VitalsRepo,
		bus:      deps.Bus,
		logger:   logger,
	}
}

// RegisterPatientInput describes the registration payload.
type RegisterPatientInput struct {
	Name     string
	Age      int
	Gender   domain.Gender
	Symptoms []string
	Vitals   domain.VitalSigns
}

// RegisterPatient creates the patient, records the first vitals sample
// and emits PATIENT_REGISTERED plus, when the vitals are on their own
// alarming, CRITICAL_VITALS_DETECTED.
func (s *PatientService) RegisterPatient(ctx context.Context, input RegisterPatientInput, actorID string) (*domain.Patient, error) {
	patient, err := domain.NewPatient(input.Name, input.Age, input.Gender, input.Symptoms, input.Vitals)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordVitals(ctx, patient.ID(), input.Vitals, actorID)

	s.notify(ctx, events.NewPatientRegistered(patient.ID(), patient.Name(), patient.Priority(), actorID))
	if domain.VitalsAreCritical(input.Vitals) {
		s.notify(ctx, events.NewCriticalVitalsDetected(patient.ID(), input.Vitals, patient.Priority()))
	}
	return patient, nil
}

// GetPatient loads a patient with its comments.
func (s *PatientService) GetPatient(ctx context.Context, patientID string) (*domain.Patient, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient", map[string]any{"patientId": patientID})
		}
		return nil, apperrors.MapError(err)
	}
	return patient, nil
}

// ListPatients returns the triage board with the given filter.
func (s *PatientService) ListPatients(ctx context.Context, filter repository.PatientFilter) ([]*domain.Patient, error) {
	patients, err := s.patients.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return patients, nil
}

// GetDoctorPatients returns the patients currently assigned to a doctor.
func (s *PatientService) GetDoctorPatients(ctx context.Context, doctorID string) ([]*domain.Patient, error) {
	patients, err := s.patients.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return patients, nil
}

// UpdatePatientStatus sets the patient status. Discharge emits
// PATIENT_DISCHARGED; repeating a discharge keeps the original
// timestamp and does not re-emit.
func (s *PatientService) UpdatePatientStatus(ctx context.Context, patientID string, status domain.PatientStatus, actorID string) (*domain.Patient, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	alreadyDischarged := patient.Status() == domain.StatusDischarged
	if err := patient.UpdateStatus(status); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	if status == domain.StatusDischarged && !alreadyDischarged {
		s.notify(ctx, events.NewPatientDischarged(patient.ID(), patient.Process(), actorID))
	}
	return patient, nil
}

// SetPatientProcess records the disposition, driving the matching status
// transition. A DISCHARGE disposition emits PATIENT_DISCHARGED.
func (s *PatientService) SetPatientProcess(ctx context.Context, patientID string, process domain.ProcessType, details, actorID string) (*domain.Patient, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	alreadyDischarged := patient.Status() == domain.StatusDischarged
	if err := patient.SetProcess(process, details); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	if patient.Status() == domain.StatusDischarged && !alreadyDischarged {
		s.notify(ctx, events.NewPatientDischarged(patient.ID(), patient.Process(), actorID))
	}
	return patient, nil
}

// ClearPatientProcess resets the disposition without touching status.
func (s *PatientService) ClearPatientProcess(ctx context.Context, patientID string) (*domain.Patient, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	patient.ClearProcess()
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	return patient, nil
}

// SetManualPriority overrides the automatic priority and emits
// PATIENT_PRIORITY_CHANGED with the effective values.
func (s *PatientService) SetManualPriority(ctx context.Context, patientID string, priority domain.Priority, actorID, reason string) (*domain.Patient, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	oldPriority := patient.Priority()
	if err := patient.SetManualPriority(priority); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	if patient.Priority() != oldPriority {
		s.notify(ctx, events.NewPriorityChanged(patient.ID(), oldPriority, patient.Priority(), actorID, reason))
	}
	return patient, nil
}

// ClearManualPriority restores the automatic priority, emitting
// PATIENT_PRIORITY_CHANGED when the effective value moves.
func (s *PatientService) ClearManualPriority(ctx context.Context, patientID, actorID string) (*domain.Patient, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	oldPriority := patient.Priority()
	patient.ClearManualPriority()
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	if patient.Priority() != oldPriority {
		s.notify(ctx, events.NewPriorityChanged(patient.ID(), oldPriority, patient.Priority(), actorID, "manual override cleared"))
	}
	return patient, nil
}

// UpdateVitals records fresh measurements, recomputes the automatic
// priority and emits escalation and critical-vitals events as needed.
func (s *PatientService) UpdateVitals(ctx context.Context, patientID string, vitals domain.VitalSigns, actorID string) (*domain.Patient, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	oldPriority := patient.Priority()
	if err := patient.UpdateVitals(vitals); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordVitals(ctx, patient.ID(), vitals, actorID)

	if patient.Priority() != oldPriority {
		s.notify(ctx, events.NewPriorityChanged(patient.ID(), oldPriority, patient.Priority(), actorID, "vitals update"))
	}
	if domain.VitalsAreCritical(vitals) {
		s.notify(ctx, events.NewCriticalVitalsDetected(patient.ID(), vitals, patient.Priority()))
	}
	return patient, nil
}

// AddCommentInput describes a clinical note payload.
type AddCommentInput struct {
	PatientID string
	AuthorID  string
	Content   string
	Type      domain.CommentType
}

// AddComment attaches a clinical note to the patient, resolving the
// author for attribution.
func (s *PatientService) AddComment(ctx context.Context, input AddCommentInput) (*domain.PatientComment, error) {
	patient, err := s.GetPatient(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, input.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("author", map[string]any{"authorId": input.AuthorID})
		}
		return nil, apperrors.MapError(err)
	}

	comment, err := domain.NewPatientComment(patient.ID(), author.ID, author.Name, author.Role, input.Content, input.Type)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := patient.AddComment(*comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// recordVitals appends to the vitals history. Failures are logged only;
// history is not allowed to block triage.
func (s *PatientService) recordVitals(ctx context.Context, patientID string, vitals domain.VitalSigns, actorID string) {
	if s.vitals == nil {
		return
	}
	if actorID == "" {
		actorID = events.SystemActor
	}
	record := &domain.VitalsRecord{
		ID:         uuid.NewString(),
		PatientID:  patientID,
		Vitals:     vitals,
		RecordedBy: actorID,
		RecordedAt: time.Now(),
	}
	if err := s.vitals.Create(ctx, record); err != nil {
		s.logger.Warn("vitals history write failed", zap.String("patient_id", patientID), zap.Error(err))
	}
}

func (s *PatientService) notify(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Notify(ctx, event)
}
