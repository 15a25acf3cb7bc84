package domain

import "github.com/shopspring/decimal"

// PaymentRequest asks the settlement orchestrator to move Amount from the
// account to the beneficiary using the given payment method. It is never
// persisted; it lives only for the duration of one settlement call.
//
// PaymentMethodID is optional for pure transfers (PaymentType "transfer");
// every other payment type requires it.
type PaymentRequest struct {
	AccountID       string          `json:"accountId"`
	PaymentMethodID string          `json:"paymentMethodId"`
	BeneficiaryID   string          `json:"beneficiaryId"`
	PaymentType     string          `json:"paymentType,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
}
