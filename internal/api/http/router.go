package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Patients       *handlers.PatientsHandler
	Doctors        *handlers.DoctorsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/doctors", cfg.Auth.RegisterDoctor)
	admin.Post("/nurses", cfg.Auth.RegisterNurse)

	staff := auth.RequireRole(domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse)
	clinicians := auth.RequireRole(domain.RoleAdmin, domain.RoleDoctor)

	patients := app.Group("/patients", cfg.AuthMiddleware.Handle, staff)
	patients.Post("", cfg.Patients.Register)
	patients.Get("", cfg.Patients.List)
	patients.Get("/:id", cfg.Patients.Get)
	patients.Patch("/:id/status", cfg.Patients.UpdateStatus)
	patients.Put("/:id/vitals", cfg.Patients.UpdateVitals)
	patients.Post("/:id/comments", cfg.Patients.AddComment)
	patients.Put("/:id/priority", clinicians, cfg.Patients.SetPriority)
	patients.Delete("/:id/priority", clinicians, cfg.Patients.ClearPriority)
	patients.Put("/:id/process", clinicians, cfg.Patients.SetProcess)
	patients.Delete("/:id/process", clinicians, cfg.Patients.ClearProcess)
	patients.Post("/:id/assign", cfg.Patients.AssignDoctor)

	doctors := app.Group("/doctors", cfg.AuthMiddleware.Handle, staff)
	doctors.Get("", cfg.Doctors.List)
	doctors.Get("/:id", cfg.Doctors.Get)
	doctors.Get("/:id/patients", cfg.Doctors.Patients)
	doctors.Post("/:id/availability", cfg.Doctors.ToggleAvailability)
}
