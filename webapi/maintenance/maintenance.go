// Package maintenance exposes technician scheduling over HTTP.
package maintenance

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/webapi/common"
)

// Service is the maintenance surface this API serves.
type Service interface {
	ListTechnicians(ctx context.Context) ([]domain.Technician, error)
	ListAvailableTechnicians(ctx context.Context) ([]domain.Technician, error)
	GetTechnician(ctx context.Context, technicianID string) (*domain.Technician, error)
	NextAvailableSlot(ctx context.Context) (*domain.ScheduleSlot, error)
	TechnicianSchedule(ctx context.Context, technicianID string) ([]domain.ScheduleSlot, error)
	BookJob(ctx context.Context, req domain.JobBookingRequest) (*domain.MaintenanceJob, error)
	ListJobs(ctx context.Context) ([]domain.MaintenanceJob, error)
	ListJobsByStatus(ctx context.Context, status string) ([]domain.MaintenanceJob, error)
	GetJob(ctx context.Context, jobID string) (*domain.MaintenanceJob, error)
	UpdateJobStatus(ctx context.Context, jobID, status string) (*domain.MaintenanceJob, error)
}

type statusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// Routes registers the maintenance endpoints on app.
func Routes(app *fiber.App, svc Service) {
	api := app.Group("/api")
	api.Get("/technicians/available", listAvailable(svc))
	api.Get("/technicians/:technicianId", getTechnician(svc))
	api.Get("/technicians", listTechnicians(svc))
	api.Get("/schedule/next-available", nextAvailable(svc))
	api.Get("/schedule/technician/:technicianId", technicianSchedule(svc))
	api.Post("/jobs/book", bookJob(svc))
	api.Get("/jobs/status/:status", listJobsByStatus(svc))
	api.Get("/jobs/:jobId", getJob(svc))
	api.Put("/jobs/:jobId/status", updateJobStatus(svc))
	api.Get("/jobs", listJobs(svc))
}

func listTechnicians(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		technicians, err := svc.ListTechnicians(c.Context())
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(technicians)
	}
}

func listAvailable(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		technicians, err := svc.ListAvailableTechnicians(c.Context())
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(technicians)
	}
}

func getTechnician(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		technician, err := svc.GetTechnician(c.Context(), c.Params("technicianId"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(technician)
	}
}

func nextAvailable(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slot, err := svc.NextAvailableSlot(c.Context())
		if errors.Is(err, docstore.ErrNotFound) {
			return common.ErrorJSON(c, fiber.StatusNotFound, "No available slots")
		}
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(slot)
	}
}

func technicianSchedule(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slots, err := svc.TechnicianSchedule(c.Context(), c.Params("technicianId"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(slots)
	}
}

func bookJob(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := common.BindAndValidate[domain.JobBookingRequest](c)
		if err != nil || req == nil {
			return err
		}
		job, err := svc.BookJob(c.Context(), *req)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(job)
	}
}

func listJobs(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobs, err := svc.ListJobs(c.Context())
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(jobs)
	}
}

func listJobsByStatus(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobs, err := svc.ListJobsByStatus(c.Context(), c.Params("status"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(jobs)
	}
}

func getJob(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		job, err := svc.GetJob(c.Context(), c.Params("jobId"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(job)
	}
}

func updateJobStatus(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		update, err := common.BindAndValidate[statusUpdate](c)
		if err != nil || update == nil {
			return err
		}
		job, err := svc.UpdateJobStatus(c.Context(), c.Params("jobId"), update.Status)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(job)
	}
}
