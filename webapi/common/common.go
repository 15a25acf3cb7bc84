// Package common holds the pieces shared by every service's HTTP layer:
// app construction, the error wire shape, domain-error status mapping and
// request binding.
package common

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

var validate = validator.New()

// NewApp builds a Fiber app with the shared middleware and a health
// endpoint reporting the service name.
func NewApp(service string, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: service,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			logger.Error("request failed", "path", c.Path(), "error", err)
			return ErrorJSON(c, status, err.Error())
		},
	})
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "service": service})
	})
	return app
}

// ErrorJSON writes the error wire shape used by all services.
func ErrorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// ErrorToStatusCode maps domain errors to HTTP statuses. Missing resources
// are 404; validation and business-rule rejections are 400; a lost
// optimistic-concurrency race is 409; everything else, including an
// aborted settlement and store faults, is 500.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrPaymentMethodNotFound),
		errors.Is(err, domain.ErrBeneficiaryNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrTechnicianNotFound),
		errors.Is(err, domain.ErrJobNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrSlotUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError maps err to a status and writes the error body.
func RespondError(c *fiber.Ctx, err error) error {
	return ErrorJSON(c, ErrorToStatusCode(err), err.Error())
}

// BindAndValidate parses the request body into T and validates it. On
// failure the error response has already been written and the returned
// pointer is nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorJSON(c, fiber.StatusBadRequest, "Invalid JSON in request body")
	}
	if err := validate.Struct(input); err != nil {
		return nil, ErrorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return &input, nil
}
