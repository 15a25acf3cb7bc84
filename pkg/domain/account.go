package domain

import "github.com/shopspring/decimal"

// Account is a bank account document. Partitioned by UserName; Balance is
// the only field mutated after creation, and only through the ledger
// service's compare-and-set debit.
type Account struct {
	ID                    string                 `json:"id"`
	UserName              string                 `json:"userName"`
	AccountHolderFullName string                 `json:"accountHolderFullName"`
	Currency              string                 `json:"currency" validate:"omitempty,iso4217"`
	ActivationDate        string                 `json:"activationDate,omitempty"`
	Balance               decimal.Decimal        `json:"balance"`
	PaymentMethods        []PaymentMethodSummary `json:"paymentMethods,omitempty"`
}
