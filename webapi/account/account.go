// Package account exposes account reads over HTTP.
package account

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/webapi/common"
)

// Ledger is the account read surface this API serves.
type Ledger interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountsByUser(ctx context.Context, userName string) ([]domain.Account, error)
}

// Routes registers the account endpoints on app.
func Routes(app *fiber.App, svc Ledger) {
	api := app.Group("/api")
	api.Get("/accounts/user/:userName", listByUser(svc))
	api.Get("/accounts/:accountId", getAccount(svc))
}

func getAccount(svc Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := c.Params("accountId")
		if !domain.IsNumericID(accountID) {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "Invalid account number")
		}
		account, err := svc.GetAccount(c.Context(), accountID)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(account)
	}
}

func listByUser(svc Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := svc.GetAccountsByUser(c.Context(), c.Params("userName"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(accounts)
	}
}
