// Package journal owns the append-only transaction log. Append is an
// idempotent upsert keyed by the entry's own id within the account
// partition: replaying the same entry overwrites it with identical content
// instead of duplicating it, so the operation is safe to retry.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

const (
	defaultTimeout = 5 * time.Second

	// DefaultLimit is the page size for LastN when the caller passes n <= 0.
	DefaultLimit = 10
)

// Service reads and appends journal entries.
type Service struct {
	transactions docstore.Container
	logger       *slog.Logger
	timeout      time.Duration
	now          func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds a journal service over the transactions container.
func New(client docstore.Client, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		transactions: client.Container(docstore.ContainerTransactions),
		logger:       logger,
		timeout:      defaultTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stores one journal entry for the account. The account id on the
// entry is overwritten with accountID; a missing id or timestamp is filled
// in. Returns the stored entry.
func (s *Service) Append(ctx context.Context, accountID string, tx domain.Transaction) (*domain.Transaction, error) {
	if !domain.IsNumericID(accountID) {
		return nil, fmt.Errorf("%w: accountId must be a non-empty number", domain.ErrInvalidRequest)
	}
	tx.AccountID = accountID
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Timestamp == "" {
		tx.Timestamp = domain.FormatTimestamp(s.now())
	}

	body, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	stored, err := s.transactions.Upsert(cctx, &docstore.Doc{
		ID:           tx.ID,
		PartitionKey: accountID,
		Body:         body,
	})
	if err != nil {
		return nil, fmt.Errorf("append transaction %s: %w", tx.ID, err)
	}
	var out domain.Transaction
	if err := json.Unmarshal(stored.Body, &out); err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", tx.ID, err)
	}
	s.logger.Info("transaction appended",
		"account_id", accountID, "transaction_id", out.ID, "amount", out.Amount)
	return &out, nil
}

// LastN returns the account's n most recent entries, newest first. Each
// call re-executes the scan; no cursor state is kept between calls.
func (s *Service) LastN(ctx context.Context, accountID string, n int) ([]domain.Transaction, error) {
	if !domain.IsNumericID(accountID) {
		return nil, fmt.Errorf("%w: accountId must be a non-empty number", domain.ErrInvalidRequest)
	}
	if n <= 0 {
		n = DefaultLimit
	}
	return s.scan(ctx, docstore.Query{
		PartitionKey: accountID,
		OrderBy:      "timestamp",
		Desc:         true,
		Limit:        n,
	})
}

// SearchByRecipient returns the account's entries whose recipient name
// contains term, case-insensitively, newest first.
func (s *Service) SearchByRecipient(ctx context.Context, accountID, term string) ([]domain.Transaction, error) {
	if !domain.IsNumericID(accountID) {
		return nil, fmt.Errorf("%w: accountId must be a non-empty number", domain.ErrInvalidRequest)
	}
	if term == "" {
		return nil, fmt.Errorf("%w: search term must not be empty", domain.ErrInvalidRequest)
	}
	return s.scan(ctx, docstore.Query{
		PartitionKey: accountID,
		Filters:      []docstore.Filter{docstore.ContainsFold("recipientName", term)},
		OrderBy:      "timestamp",
		Desc:         true,
	})
}

func (s *Service) scan(ctx context.Context, q docstore.Query) ([]domain.Transaction, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.transactions.Query(cctx, q)
	if err != nil {
		return nil, fmt.Errorf("scan transactions for %s: %w", q.PartitionKey, err)
	}
	out := make([]domain.Transaction, 0, len(docs))
	for _, doc := range docs {
		var tx domain.Transaction
		if err := json.Unmarshal(doc.Body, &tx); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", doc.ID, err)
		}
		out = append(out, tx)
	}
	return out, nil
}
