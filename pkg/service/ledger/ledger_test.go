package ledger

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerstack/ledgerstack/infra/docstore/memory"
	"github.com/ledgerstack/ledgerstack/internal/fixtures"
	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

func newService(t *testing.T) (*Service, docstore.Client) {
	t.Helper()
	client := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, fixtures.Seed(context.Background(), client, logger))
	return New(client, logger), client
}

func TestGetAccountAttachesPaymentMethodSummaries(t *testing.T) {
	svc, _ := newService(t)

	account, err := svc.GetAccount(context.Background(), "1010")
	require.NoError(t, err)
	assert.Equal(t, "bob.user@contoso.com", account.UserName)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("10000")))
	require.Len(t, account.PaymentMethods, 2)
	ids := []string{account.PaymentMethods[0].ID, account.PaymentMethods[1].ID}
	assert.ElementsMatch(t, []string{"345678", "55555"}, ids)
}

func TestGetAccountNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetAccount(context.Background(), "9999")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestGetAccountsByUser(t *testing.T) {
	svc, _ := newService(t)

	accounts, err := svc.GetAccountsByUser(context.Background(), "alice.user@contoso.com")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "1000", accounts[0].ID)

	none, err := svc.GetAccountsByUser(context.Background(), "nobody@contoso.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDebitBalance(t *testing.T) {
	svc, _ := newService(t)

	newBalance, err := svc.DebitBalance(context.Background(), "1000", decimal.RequireFromString("120.50"))
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.RequireFromString("4879.50")), newBalance.String())

	account, err := svc.GetAccount(context.Background(), "1000")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(newBalance))
}

func TestDebitBalanceInsufficientFunds(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.DebitBalance(context.Background(), "1020", decimal.RequireFromString("3000.01"))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, err := svc.GetAccount(context.Background(), "1020")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("3000")))
}

// Concurrent debits that together exactly drain the balance must all
// commit, and the final balance must be zero: no debit may overwrite
// another.
func TestDebitBalanceConcurrentDebitsAllApply(t *testing.T) {
	const workers = 10
	client := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, fixtures.Seed(context.Background(), client, logger))
	// Enough retries that every worker eventually wins a round.
	svc := New(client, logger, WithMaxRetries(workers*3))

	amount := decimal.RequireFromString("500") // 10 x 500 = 5000, Alice's full balance
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.DebitBalance(context.Background(), "1000", amount)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	account, err := svc.GetAccount(context.Background(), "1000")
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero(), account.Balance.String())
}

// With one debit more than the balance covers, exactly one must fail with
// insufficient funds and the rest must all commit.
func TestDebitBalanceConcurrentOverdraftRejected(t *testing.T) {
	const workers = 11
	client := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, fixtures.Seed(context.Background(), client, logger))
	svc := New(client, logger, WithMaxRetries(workers*3))

	amount := decimal.RequireFromString("500")
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.DebitBalance(context.Background(), "1000", amount)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected)

	account, err := svc.GetAccount(context.Background(), "1000")
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero(), account.Balance.String())
}
