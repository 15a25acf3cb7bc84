// Package events defines the outbound event contract. Publishing is
// best-effort everywhere: a failed publish is logged by the caller and
// never changes a request's outcome.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Publisher emits domain events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// PaymentSettled is emitted after a settlement commits its debit.
type PaymentSettled struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	BeneficiaryID string          `json:"beneficiary_id"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Confirmed     bool            `json:"confirmed"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, any) error { return nil }
