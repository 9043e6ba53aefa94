package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/service"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
	"github.com/spec-kit/triage-service/pkg/validation"
)

// PatientsHandler serves the triage board endpoints.
type PatientsHandler struct {
	patients    *service.PatientService
	assignments *service.AssignmentService
}

// NewPatientsHandler constructs the handler.
func NewPatientsHandler(patients *service.PatientService, assignments *service.AssignmentService) *PatientsHandler {
	return &PatientsHandler{patients: patients, assignments: assignments}
}

// Register admits a new patient into triage.
func (h *PatientsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterPatientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	patient, err := h.patients.RegisterPatient(c.UserContext(), service.RegisterPatientInput{
		Name:     req.Name,
		Age:      req.Age,
		Gender:   domain.Gender(req.Gender),
		Symptoms: req.Symptoms,
		Vitals:   req.Vitals.ToVitals(),
	}, actorID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// Get returns a single patient with its comments.
func (h *PatientsHandler) Get(c *fiber.Ctx) error {
	patient, err := h.patients.GetPatient(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// List returns the triage board, most critical first.
func (h *PatientsHandler) List(c *fiber.Ctx) error {
	filter, err := parsePatientFilter(c)
	if err != nil {
		return err
	}
	patients, err := h.patients.ListPatients(c.UserContext(), filter)
	if err != nil {
		return err
	}
	responses := make([]dto.PatientResponse, 0, len(patients))
	for _, patient := range patients {
		responses = append(responses, dto.FromPatient(patient))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// UpdateStatus moves a patient through the care flow.
func (h *PatientsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}
	status := domain.PatientStatus(strings.ToUpper(req.Status))
	if !domain.ValidPatientStatus(status) {
		return apperrors.NewValidationError("unknown patient status", map[string]any{"status": req.Status})
	}

	patient, err := h.patients.UpdatePatientStatus(c.UserContext(), c.Params("id"), status, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// SetProcess records the disposition decided for the patient.
func (h *PatientsHandler) SetProcess(c *fiber.Ctx) error {
	var req dto.SetProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	process := domain.ProcessType(strings.ToUpper(req.Process))
	patient, err := h.patients.SetPatientProcess(c.UserContext(), c.Params("id"), process, req.Details, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// ClearProcess resets the disposition.
func (h *PatientsHandler) ClearProcess(c *fiber.Ctx) error {
	patient, err := h.patients.ClearPatientProcess(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// SetPriority applies a manual priority override.
func (h *PatientsHandler) SetPriority(c *fiber.Ctx) error {
	var req dto.SetPriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	patient, err := h.patients.SetManualPriority(c.UserContext(), c.Params("id"), domain.Priority(req.Priority), actorID(c), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// ClearPriority removes the manual override, restoring the calculated one.
func (h *PatientsHandler) ClearPriority(c *fiber.Ctx) error {
	patient, err := h.patients.ClearManualPriority(c.UserContext(), c.Params("id"), actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// UpdateVitals records fresh measurements for the patient.
func (h *PatientsHandler) UpdateVitals(c *fiber.Ctx) error {
	var req dto.VitalSignsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	patient, err := h.patients.UpdateVitals(c.UserContext(), c.Params("id"), req.ToVitals(), actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPatient(patient)})
}

// AddComment attaches a clinical note to the patient.
func (h *PatientsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	comment, err := h.patients.AddComment(c.UserContext(), service.AddCommentInput{
		PatientID: c.Params("id"),
		AuthorID:  principal.Person.ID,
		Content:   req.Content,
		Type:      domain.CommentType(strings.ToUpper(req.Type)),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromComment(*comment)})
}

// AssignDoctor puts a doctor in charge of the patient's case.
func (h *PatientsHandler) AssignDoctor(c *fiber.Ctx) error {
	var req dto.AssignDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	result, err := h.assignments.AssignDoctorToPatient(c.UserContext(), c.Params("id"), req.DoctorID, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AssignmentResponse{
		Patient: dto.FromPatient(result.Patient),
		Doctor:  dto.FromDoctor(result.Doctor),
	}})
}

func parsePatientFilter(c *fiber.Ctx) (repository.PatientFilter, error) {
	filter := repository.PatientFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := domain.PatientStatus(strings.ToUpper(strings.TrimSpace(part)))
			if !domain.ValidPatientStatus(status) {
				return filter, apperrors.NewValidationError("unknown patient status", map[string]any{"status": part})
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if raw := c.Query("priority"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			value, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(part)), "P"))
			if err != nil || !domain.Priority(value).Valid() {
				return filter, apperrors.NewValidationError("unknown priority", map[string]any{"priority": part})
			}
			filter.Priorities = append(filter.Priorities, domain.Priority(value))
		}
	}
	if doctorID := c.Query("doctor_id"); doctorID != "" {
		filter.AssignedDoctorID = &doctorID
	}
	if nurseID := c.Query("nurse_id"); nurseID != "" {
		filter.AssignedNurseID = &nurseID
	}
	if raw := c.Query("unassigned"); raw != "" {
		unassigned := raw == "true" || raw == "1"
		filter.Unassigned = &unassigned
	}
	return filter, nil
}

// actorID resolves the acting staff member for audit attribution. Empty
// means the action is attributed to the system.
func actorID(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.Person.ID
	}
	return ""
}
