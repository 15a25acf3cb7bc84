// Package ledger owns account balance records. Reads resolve accounts by id
// (a cross-partition scan, since the owning user is not known to callers)
// or by user name (the in-partition fast path). The only write is
// DebitBalance, a bounded optimistic-concurrency read-modify-write.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

const (
	defaultTimeout    = 5 * time.Second
	defaultMaxRetries = 3
)

// Service provides account reads and the balance debit.
type Service struct {
	accounts   docstore.Container
	methods    docstore.Container
	logger     *slog.Logger
	timeout    time.Duration
	maxRetries int
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithMaxRetries bounds the optimistic-concurrency retry loop.
func WithMaxRetries(n int) Option {
	return func(s *Service) { s.maxRetries = n }
}

// New builds a ledger service over the account and payment-method
// containers.
func New(client docstore.Client, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		accounts:   client.Container(docstore.ContainerAccounts),
		methods:    client.Container(docstore.ContainerPaymentMethods),
		logger:     logger,
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAccount resolves an account by id and attaches its payment-method
// summaries. Only the id is known, so this takes the cross-partition slow
// path. Returns domain.ErrAccountNotFound when absent.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	doc, err := s.findAccountDoc(ctx, accountID)
	if err != nil {
		return nil, err
	}
	var acct domain.Account
	if err := json.Unmarshal(doc.Body, &acct); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", accountID, err)
	}
	summaries, err := s.methodSummaries(ctx, accountID)
	if err != nil {
		return nil, err
	}
	acct.PaymentMethods = summaries
	return &acct, nil
}

// GetAccountsByUser lists a user's accounts via the in-partition fast path.
func (s *Service) GetAccountsByUser(ctx context.Context, userName string) ([]domain.Account, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.accounts.Query(cctx, docstore.Query{PartitionKey: userName})
	if err != nil {
		return nil, fmt.Errorf("list accounts for %s: %w", userName, err)
	}
	accounts := make([]domain.Account, 0, len(docs))
	for _, doc := range docs {
		var acct domain.Account
		if err := json.Unmarshal(doc.Body, &acct); err != nil {
			return nil, fmt.Errorf("decode account %s: %w", doc.ID, err)
		}
		summaries, err := s.methodSummaries(ctx, acct.ID)
		if err != nil {
			return nil, err
		}
		acct.PaymentMethods = summaries
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// DebitBalance subtracts amount from the account balance using an
// etag-conditioned replace. On a lost race the whole read-modify-write is
// retried, up to the configured budget; a blind overwrite is never issued,
// so two concurrent debits can never both commit a balance missing either
// one. Returns the new balance, or domain.ErrInsufficientFunds /
// domain.ErrConflict.
func (s *Service) DebitBalance(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		doc, err := s.findAccountDoc(ctx, accountID)
		if err != nil {
			return decimal.Zero, err
		}
		var acct domain.Account
		if err := json.Unmarshal(doc.Body, &acct); err != nil {
			return decimal.Zero, fmt.Errorf("decode account %s: %w", accountID, err)
		}

		newBalance := acct.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return decimal.Zero, domain.ErrInsufficientFunds
		}
		acct.Balance = newBalance

		body, err := json.Marshal(acct)
		if err != nil {
			return decimal.Zero, err
		}
		doc.Body = body

		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err = s.accounts.Replace(cctx, doc, doc.ETag)
		cancel()
		if err == nil {
			return newBalance, nil
		}
		if !errors.Is(err, docstore.ErrPreconditionFailed) {
			return decimal.Zero, fmt.Errorf("update balance for %s: %w", accountID, err)
		}
		s.logger.Warn("balance update lost a concurrent race, retrying",
			"account_id", accountID, "attempt", attempt)
	}
	return decimal.Zero, domain.ErrConflict
}

// findAccountDoc locates the raw account document by id across partitions.
func (s *Service) findAccountDoc(ctx context.Context, accountID string) (*docstore.Doc, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.accounts.QueryAll(cctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("id", accountID)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("find account %s: %w", accountID, err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return docs[0], nil
}

func (s *Service) methodSummaries(ctx context.Context, accountID string) ([]domain.PaymentMethodSummary, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.methods.Query(cctx, docstore.Query{PartitionKey: accountID})
	if err != nil {
		return nil, fmt.Errorf("list payment methods for %s: %w", accountID, err)
	}
	summaries := make([]domain.PaymentMethodSummary, 0, len(docs))
	for _, doc := range docs {
		var pm domain.PaymentMethod
		if err := json.Unmarshal(doc.Body, &pm); err != nil {
			return nil, fmt.Errorf("decode payment method %s: %w", doc.ID, err)
		}
		summaries = append(summaries, pm.Summary())
	}
	return summaries, nil
}
