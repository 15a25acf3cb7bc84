// Package payment exposes the settlement endpoint over HTTP.
package payment

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/pkg/service/settlement"
	"github.com/ledgerstack/ledgerstack/webapi/common"
)

// Settler executes one payment.
type Settler interface {
	Settle(ctx context.Context, req domain.PaymentRequest) (*settlement.Result, error)
}

// Response is the settlement wire shape. NewBalance is the balance after
// the debit, which stands even when confirmation is pending.
type Response struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Transaction *domain.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"newBalance"`
}

// Routes registers the payment endpoints on app.
func Routes(app *fiber.App, svc Settler) {
	app.Post("/api/payments", processPayment(svc))
}

func processPayment(svc Settler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := common.BindAndValidate[domain.PaymentRequest](c)
		if err != nil || req == nil {
			return err
		}
		result, err := svc.Settle(c.Context(), *req)
		if err != nil {
			return common.RespondError(c, err)
		}
		message := "Payment processed successfully"
		if !result.Confirmed {
			message = "Payment settled, confirmation pending"
		}
		return c.JSON(Response{
			Success:     true,
			Message:     message,
			Transaction: result.Transaction,
			NewBalance:  result.NewBalance,
		})
	}
}
