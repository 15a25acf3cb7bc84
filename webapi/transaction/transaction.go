// Package transaction exposes the journal over HTTP.
package transaction

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/webapi/common"
)

// Journal is the journal surface this API serves.
type Journal interface {
	Append(ctx context.Context, accountID string, tx domain.Transaction) (*domain.Transaction, error)
	LastN(ctx context.Context, accountID string, n int) ([]domain.Transaction, error)
	SearchByRecipient(ctx context.Context, accountID, term string) ([]domain.Transaction, error)
}

// Routes registers the transaction endpoints on app.
func Routes(app *fiber.App, svc Journal) {
	api := app.Group("/api")
	api.Get("/transactions/:accountId/search", search(svc))
	api.Get("/transactions/:accountId", list(svc))
	api.Post("/transactions/:accountId", create(svc))
}

func list(svc Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit")
		txs, err := svc.LastN(c.Context(), c.Params("accountId"), limit)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(txs)
	}
}

func search(svc Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		term := c.Query("recipientName")
		txs, err := svc.SearchByRecipient(c.Context(), c.Params("accountId"), term)
		if err != nil {
			return common.RespondError(c, err)
		}
		// An unmatched search is an empty list, not an error.
		return c.JSON(txs)
	}
}

func create(svc Journal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx, err := common.BindAndValidate[domain.Transaction](c)
		if err != nil || tx == nil {
			return err
		}
		stored, err := svc.Append(c.Context(), c.Params("accountId"), *tx)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(stored)
	}
}
