package domain

import "github.com/shopspring/decimal"

// PaymentMethod is a payment instrument owned by an account. Partitioned by
// AccountID. Immutable once created except for AvailableBalance, which the
// settlement workflow does not touch.
type PaymentMethod struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"accountId"`
	Type             string          `json:"type"`
	ActivationDate   string          `json:"activationDate,omitempty"`
	ExpirationDate   string          `json:"expirationDate,omitempty"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	CardNumber       string          `json:"cardNumber,omitempty"`
}

// PaymentMethodSummary is the denormalized form embedded in account reads.
type PaymentMethodSummary struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	ActivationDate string `json:"activationDate,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

// Summary projects a payment method to its embedded summary form.
func (pm PaymentMethod) Summary() PaymentMethodSummary {
	return PaymentMethodSummary{
		ID:             pm.ID,
		Type:           pm.Type,
		ActivationDate: pm.ActivationDate,
		ExpirationDate: pm.ExpirationDate,
	}
}

// Beneficiary is immutable payee reference data, partitioned by AccountID.
type Beneficiary struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	FullName  string `json:"fullName"`
	BankCode  string `json:"bankCode"`
	BankName  string `json:"bankName"`
}
