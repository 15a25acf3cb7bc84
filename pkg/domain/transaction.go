package domain

import "github.com/shopspring/decimal"

// Transaction direction tags. The journal keeps the legacy income/outcome
// naming: income is a credit, outcome a debit.
const (
	TransactionIncome  = "income"
	TransactionOutcome = "outcome"
)

// Transaction is one append-only journal entry, partitioned by AccountID.
// Amount is signed: negative for debits. Entries are never updated or
// deleted once appended; the journal is the source of truth for account
// history.
type Transaction struct {
	ID                     string          `json:"id"`
	AccountID              string          `json:"accountId"`
	Description            string          `json:"description"`
	Type                   string          `json:"type"`
	RecipientName          string          `json:"recipientName"`
	RecipientBankReference string          `json:"recipientBankReference"`
	PaymentType            string          `json:"paymentType"`
	Amount                 decimal.Decimal `json:"amount"`
	Timestamp              string          `json:"timestamp,omitempty"`
}
