package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/dto"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/service"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
	"github.com/spec-kit/triage-service/pkg/validation"
)

// AuthHandler serves staff account endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a staff member and issues a token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	person, token, expiresAt, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User:      dto.FromPerson(person),
		Token:     token,
		ExpiresAt: expiresAt,
	}})
}

// RegisterDoctor creates a doctor account. Admin only.
func (h *AuthHandler) RegisterDoctor(c *fiber.Ctx) error {
	var req dto.RegisterDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	doctor, err := h.authService.RegisterDoctor(c.UserContext(), service.RegisterDoctorInput{
		Email:          req.Email,
		Name:           req.Name,
		Password:       req.Password,
		Specialty:      req.Specialty,
		LicenseNumber:  req.LicenseNumber,
		MaxPatientLoad: req.MaxPatientLoad,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromDoctor(doctor)})
}

// RegisterNurse creates a nurse account. Admin only.
func (h *AuthHandler) RegisterNurse(c *fiber.Ctx) error {
	var req dto.RegisterNurseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	nurse, err := h.authService.RegisterNurse(c.UserContext(), service.RegisterNurseInput{
		Email:         req.Email,
		Name:          req.Name,
		Password:      req.Password,
		Area:          req.Area,
		Shift:         domain.NurseShift(req.Shift),
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromNurse(nurse)})
}

// ChangePassword rotates the caller's password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid request body", validation.ToDetails(err))
	}

	if err := h.authService.ChangePassword(c.UserContext(), principal.Person.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.FromPerson(principal.Person)})
}
