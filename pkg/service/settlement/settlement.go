// Package settlement orchestrates one payment end-to-end: validate the
// request, resolve the account, instrument and beneficiary, check funds,
// commit the debit, then append the journal entry. Steps run in strict
// order and every step before the debit can fail with no side effects.
//
// The debit is the first irreversible action. A journal-append failure
// after it does NOT trigger a compensating credit: the append may have
// succeeded with only the acknowledgement lost, and re-crediting would
// risk paying the account twice. The caller instead gets an explicit
// unconfirmed result and convergence relies on the journal's idempotent
// append plus reconciliation.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerstack/ledgerstack/pkg/domain"
	"github.com/ledgerstack/ledgerstack/pkg/events"
)

// PaymentTypeTransfer marks a pure transfer, which needs no payment
// method.
const PaymentTypeTransfer = "transfer"

// Ledger is the account-balance dependency.
type Ledger interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	DebitBalance(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Registry is the instrument/beneficiary lookup dependency.
type Registry interface {
	GetPaymentMethod(ctx context.Context, methodID, accountID string) (*domain.PaymentMethod, error)
	GetBeneficiary(ctx context.Context, beneficiaryID, accountID string) (*domain.Beneficiary, error)
}

// Appender records the settled transaction in the journal. In production
// this crosses the network to the transaction service.
type Appender interface {
	Append(ctx context.Context, accountID string, tx domain.Transaction) (*domain.Transaction, error)
}

// Result is the outcome of a successful debit. Confirmed is false when the
// journal append could not be verified; the debit still stands.
type Result struct {
	Transaction *domain.Transaction
	NewBalance  decimal.Decimal
	Confirmed   bool
}

// Service coordinates the ledger, registry and journal for one settlement.
type Service struct {
	ledger    Ledger
	registry  Registry
	journal   Appender
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the settlement timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds the orchestrator.
func New(ledger Ledger, registry Registry, journal Appender, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		ledger:    ledger,
		registry:  registry,
		journal:   journal,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settle executes one payment request. Errors map to the settlement
// taxonomy: domain.ErrInvalidRequest, domain.ErrAccountNotFound,
// domain.ErrPaymentMethodNotFound, domain.ErrBeneficiaryNotFound and
// domain.ErrInsufficientFunds mean nothing happened;
// domain.ErrSettlementAborted means the debit step failed and no journal
// entry exists. A non-nil Result means the debit committed.
func (s *Service) Settle(ctx context.Context, req domain.PaymentRequest) (*Result, error) {
	// Step 1: shape validation. No store calls yet.
	if err := validate(req); err != nil {
		return nil, err
	}

	// Steps 2-4: resolve the three records. Read-only; safe to cancel.
	account, err := s.ledger.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	var method *domain.PaymentMethod
	if req.PaymentMethodID != "" {
		method, err = s.registry.GetPaymentMethod(ctx, req.PaymentMethodID, req.AccountID)
		if err != nil {
			return nil, err
		}
	}

	beneficiary, err := s.registry.GetBeneficiary(ctx, req.BeneficiaryID, req.AccountID)
	if err != nil {
		return nil, err
	}

	// Step 5: funds pre-check. The debit re-checks under optimistic
	// concurrency; this rejects the obvious case before mutating anything.
	if account.Balance.Cmp(req.Amount) < 0 {
		return nil, domain.ErrInsufficientFunds
	}

	// Step 6: commit the debit. Irreversible; caller cancellation is not
	// honored once this starts, because the money would move anyway.
	debitCtx := context.WithoutCancel(ctx)
	newBalance, err := s.ledger.DebitBalance(debitCtx, req.AccountID, req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			// A concurrent settlement drained the balance between the
			// pre-check and the debit. Nothing was written.
			return nil, domain.ErrInsufficientFunds
		}
		return nil, errors.Join(domain.ErrSettlementAborted, err)
	}

	// Step 7: append the journal entry.
	entry := s.buildEntry(req, method, beneficiary)
	stored, appendErr := s.journal.Append(ctx, req.AccountID, entry)
	if appendErr != nil {
		// The debit already committed and the append may have landed with
		// only the ack lost, so it is not reversed here. Surface the
		// ambiguity instead of hiding it in a log line.
		s.logger.Warn("journal append failed after debit committed",
			"account_id", req.AccountID,
			"transaction_id", entry.ID,
			"error", appendErr)
		s.emit(ctx, entry, req, newBalance, false)
		return &Result{Transaction: &entry, NewBalance: newBalance, Confirmed: false}, nil
	}

	s.emit(ctx, *stored, req, newBalance, true)
	s.logger.Info("payment settled",
		"account_id", req.AccountID,
		"transaction_id", stored.ID,
		"amount", req.Amount,
		"new_balance", newBalance)
	return &Result{Transaction: stored, NewBalance: newBalance, Confirmed: true}, nil
}

func validate(req domain.PaymentRequest) error {
	if req.AccountID == "" {
		return fmt.Errorf("%w: accountId is empty", domain.ErrInvalidRequest)
	}
	if !domain.IsNumericID(req.AccountID) {
		return fmt.Errorf("%w: accountId is not a valid number", domain.ErrInvalidRequest)
	}
	transfer := strings.EqualFold(req.PaymentType, PaymentTypeTransfer)
	if !transfer && req.PaymentMethodID == "" {
		return fmt.Errorf("%w: paymentMethodId is empty", domain.ErrInvalidRequest)
	}
	if req.PaymentMethodID != "" && !domain.IsNumericID(req.PaymentMethodID) {
		return fmt.Errorf("%w: paymentMethodId is not a valid number", domain.ErrInvalidRequest)
	}
	if req.BeneficiaryID == "" {
		return fmt.Errorf("%w: beneficiaryId is empty", domain.ErrInvalidRequest)
	}
	if req.Amount.Cmp(decimal.Zero) <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidRequest)
	}
	return nil
}

func (s *Service) buildEntry(req domain.PaymentRequest, method *domain.PaymentMethod, beneficiary *domain.Beneficiary) domain.Transaction {
	description := req.Description
	if description == "" {
		description = "Payment to " + beneficiary.FullName
	}
	paymentType := req.PaymentType
	if method != nil {
		paymentType = method.Type
	}
	return domain.Transaction{
		ID:                     uuid.NewString(),
		AccountID:              req.AccountID,
		Description:            description,
		Type:                   domain.TransactionOutcome,
		RecipientName:          beneficiary.FullName,
		RecipientBankReference: beneficiary.BankCode,
		PaymentType:            paymentType,
		Amount:                 req.Amount.Neg(),
		Timestamp:              domain.FormatTimestamp(s.now()),
	}
}

// emit publishes the settled event best-effort; failures never change the
// settlement outcome.
func (s *Service) emit(ctx context.Context, tx domain.Transaction, req domain.PaymentRequest, newBalance decimal.Decimal, confirmed bool) {
	event := events.PaymentSettled{
		TransactionID: tx.ID,
		AccountID:     req.AccountID,
		BeneficiaryID: req.BeneficiaryID,
		Amount:        req.Amount,
		NewBalance:    newBalance,
		Confirmed:     confirmed,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish settlement event",
			"transaction_id", tx.ID, "error", err)
	}
}
