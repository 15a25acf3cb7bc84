package settlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerstack/ledgerstack/infra/docstore/memory"
	"github.com/ledgerstack/ledgerstack/internal/fixtures"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/pkg/events"
	"github.com/ledgerstack/ledgerstack/pkg/service/journal"
	"github.com/ledgerstack/ledgerstack/pkg/service/ledger"
	"github.com/ledgerstack/ledgerstack/pkg/service/registry"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.PaymentSettled
}

func (p *capturePublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := event.(events.PaymentSettled); ok {
		p.events = append(p.events, e)
	}
	return nil
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, string, domain.Transaction) (*domain.Transaction, error) {
	return nil, errors.New("transaction api unreachable")
}

type harness struct {
	svc       *Service
	ledger    *ledger.Service
	journal   *journal.Service
	publisher *capturePublisher
}

func newHarness(t *testing.T, appender Appender) *harness {
	t.Helper()
	client := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, fixtures.Seed(context.Background(), client, logger))

	ledgerSvc := ledger.New(client, logger)
	journalSvc := journal.New(client, logger)
	if appender == nil {
		appender = journalSvc
	}
	publisher := &capturePublisher{}
	return &harness{
		svc:       New(ledgerSvc, registry.New(client), appender, publisher, logger),
		ledger:    ledgerSvc,
		journal:   journalSvc,
		publisher: publisher,
	}
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSettleHappyPath(t *testing.T) {
	h := newHarness(t, nil)

	result, err := h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID:       "1010",
		PaymentMethodID: "345678",
		BeneficiaryID:   "3",
		Amount:          amount("120.50"),
	})
	require.NoError(t, err)
	require.True(t, result.Confirmed)
	assert.True(t, result.NewBalance.Equal(amount("9879.50")), result.NewBalance.String())

	tx := result.Transaction
	require.NotNil(t, tx)
	assert.Equal(t, "1010", tx.AccountID)
	assert.Equal(t, domain.TransactionOutcome, tx.Type)
	assert.Equal(t, "Sarah TheAccountant", tx.RecipientName)
	assert.Equal(t, "555123456", tx.RecipientBankReference)
	assert.Equal(t, "BankTransfer", tx.PaymentType)
	assert.Equal(t, "Payment to Sarah TheAccountant", tx.Description)
	assert.True(t, tx.Amount.Equal(amount("-120.50")), tx.Amount.String())

	// The entry is queryable from the journal.
	txs, err := h.journal.LastN(context.Background(), "1010", 50)
	require.NoError(t, err)
	found := false
	for _, stored := range txs {
		if stored.ID == tx.ID {
			found = true
		}
	}
	assert.True(t, found)

	require.Len(t, h.publisher.events, 1)
	event := h.publisher.events[0]
	assert.Equal(t, tx.ID, event.TransactionID)
	assert.True(t, event.Confirmed)
}

func TestSettleInsufficientFundsLeavesBalanceUntouched(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID:       "1010",
		PaymentMethodID: "345678",
		BeneficiaryID:   "3",
		Amount:          amount("20000"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, err := h.ledger.GetAccount(context.Background(), "1010")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(amount("10000")))
	assert.Empty(t, h.publisher.events)
}

func TestSettleValidation(t *testing.T) {
	h := newHarness(t, nil)

	cases := []struct {
		name string
		req  domain.PaymentRequest
	}{
		{"empty account", domain.PaymentRequest{
			PaymentMethodID: "345678", BeneficiaryID: "3", Amount: amount("10")}},
		{"non-numeric account", domain.PaymentRequest{
			AccountID: "abc", PaymentMethodID: "345678", BeneficiaryID: "3", Amount: amount("10")}},
		{"missing payment method", domain.PaymentRequest{
			AccountID: "1010", BeneficiaryID: "3", Amount: amount("10")}},
		{"non-numeric payment method", domain.PaymentRequest{
			AccountID: "1010", PaymentMethodID: "abc", BeneficiaryID: "3", Amount: amount("10")}},
		{"empty beneficiary", domain.PaymentRequest{
			AccountID: "1010", PaymentMethodID: "345678", Amount: amount("10")}},
		{"zero amount", domain.PaymentRequest{
			AccountID: "1010", PaymentMethodID: "345678", BeneficiaryID: "3", Amount: amount("0")}},
		{"negative amount", domain.PaymentRequest{
			AccountID: "1010", PaymentMethodID: "345678", BeneficiaryID: "3", Amount: amount("-5")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.Settle(context.Background(), tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestSettleTransferNeedsNoPaymentMethod(t *testing.T) {
	h := newHarness(t, nil)

	result, err := h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID:     "1010",
		BeneficiaryID: "3",
		PaymentType:   "Transfer",
		Amount:        amount("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Transfer", result.Transaction.PaymentType)
}

func TestSettleUnknownResources(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID: "9999", PaymentMethodID: "345678", BeneficiaryID: "3", Amount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID: "1010", PaymentMethodID: "11111", BeneficiaryID: "3", Amount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)

	_, err = h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID: "1010", PaymentMethodID: "345678", BeneficiaryID: "99", Amount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrBeneficiaryNotFound)

	// None of the failed lookups touched the balance.
	account, err := h.ledger.GetAccount(context.Background(), "1010")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(amount("10000")))
}

// A journal failure after the debit committed yields an unconfirmed result
// with the debited balance, and the debit is not compensated.
func TestSettleAppendFailureIsUnconfirmedWithoutRollback(t *testing.T) {
	h := newHarness(t, failingAppender{})

	result, err := h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID:       "1010",
		PaymentMethodID: "345678",
		BeneficiaryID:   "3",
		Amount:          amount("120.50"),
	})
	require.NoError(t, err)
	assert.False(t, result.Confirmed)
	assert.True(t, result.NewBalance.Equal(amount("9879.50")))
	require.NotNil(t, result.Transaction)

	account, err := h.ledger.GetAccount(context.Background(), "1010")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(amount("9879.50")))

	require.Len(t, h.publisher.events, 1)
	assert.False(t, h.publisher.events[0].Confirmed)
}

func TestSettleDescriptionPassedThrough(t *testing.T) {
	h := newHarness(t, nil)

	result, err := h.svc.Settle(context.Background(), domain.PaymentRequest{
		AccountID:       "1010",
		PaymentMethodID: "345678",
		BeneficiaryID:   "3",
		Amount:          amount("10"),
		Description:     "Invoice 42",
	})
	require.NoError(t, err)
	assert.Equal(t, "Invoice 42", result.Transaction.Description)
}
