// Package inventory exposes stock reads and reservations over HTTP.
package inventory

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/webapi/common"
)

// Service is the inventory surface this API serves.
type Service interface {
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
	ListByCategory(ctx context.Context, category string) ([]domain.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]domain.InventoryItem, error)
	CheckStock(ctx context.Context, itemID string) (*domain.StockCheck, error)
	Reserve(ctx context.Context, req domain.ReservationRequest) (*domain.Reservation, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error)
}

// Routes registers the inventory endpoints on app.
func Routes(app *fiber.App, svc Service) {
	api := app.Group("/api")
	api.Get("/inventory/low-stock", listLowStock(svc))
	api.Get("/inventory/category/:category", listByCategory(svc))
	api.Get("/inventory/:itemId", checkStock(svc))
	api.Get("/inventory", listItems(svc))
	api.Post("/inventory/reserve", reserve(svc))
	api.Get("/reservations/:reservationId", getReservation(svc))
	api.Get("/reservations", listReservations(svc))
}

func listItems(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListItems(c.Context())
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(items)
	}
}

func listByCategory(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListByCategory(c.Context(), c.Params("category"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(items)
	}
}

func listLowStock(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListLowStock(c.Context())
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(items)
	}
}

func checkStock(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		check, err := svc.CheckStock(c.Context(), c.Params("itemId"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(check)
	}
}

func reserve(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := common.BindAndValidate[domain.ReservationRequest](c)
		if err != nil || req == nil {
			return err
		}
		reservation, err := svc.Reserve(c.Context(), *req)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(reservation)
	}
}

func listReservations(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reservations, err := svc.ListReservations(c.Context())
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(reservations)
	}
}

func getReservation(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reservation, err := svc.GetReservation(c.Context(), c.Params("reservationId"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(reservation)
	}
}
