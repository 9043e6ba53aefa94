package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/service"
)

// DoctorsHandler serves doctor roster endpoints.
type DoctorsHandler struct {
	assignments *service.AssignmentService
	patients    *service.PatientService
}

// NewDoctorsHandler constructs the handler.
func NewDoctorsHandler(assignments *service.AssignmentService, patients *service.PatientService) *DoctorsHandler {
	return &DoctorsHandler{assignments: assignments, patients: patients}
}

// List returns the doctor roster.
func (h *DoctorsHandler) List(c *fiber.Ctx) error {
	filter := repository.DoctorFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if specialty := c.Query("specialty"); specialty != "" {
		filter.Specialty = &specialty
	}
	if raw := c.Query("available"); raw != "" {
		available := raw == "true" || raw == "1"
		filter.Available = &available
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.AccountStatus(raw)
		filter.Status = &status
	}

	doctors, err := h.assignments.ListDoctors(c.UserContext(), filter)
	if err != nil {
		return err
	}
	responses := make([]dto.DoctorResponse, 0, len(doctors))
	for _, doctor := range doctors {
		responses = append(responses, dto.FromDoctor(doctor))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get returns a single doctor.
func (h *DoctorsHandler) Get(c *fiber.Ctx) error {
	doctor, err := h.assignments.GetDoctor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDoctor(doctor)})
}

// Patients returns the caseload currently assigned to a doctor.
func (h *DoctorsHandler) Patients(c *fiber.Ctx) error {
	doctor, err := h.assignments.GetDoctor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	patients, err := h.patients.GetDoctorPatients(c.UserContext(), doctor.ID)
	if err != nil {
		return err
	}
	responses := make([]dto.PatientResponse, 0, len(patients))
	for _, patient := range patients {
		responses = append(responses, dto.FromPatient(patient))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// ToggleAvailability flips the doctor's availability switch.
func (h *DoctorsHandler) ToggleAvailability(c *fiber.Ctx) error {
	doctor, err := h.assignments.ToggleDoctorAvailability(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDoctor(doctor)})
}
