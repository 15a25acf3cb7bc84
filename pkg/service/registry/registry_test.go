package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerstack/ledgerstack/infra/docstore/memory"
	"github.com/ledgerstack/ledgerstack/internal/fixtures"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

func newService(t *testing.T) *Service {
	t.Helper()
	client := memory.New()
	require.NoError(t, fixtures.Seed(context.Background(), client, slog.New(slog.NewTextHandler(io.Discard, nil))))
	return New(client)
}

func TestGetPaymentMethod(t *testing.T) {
	svc := newService(t)

	pm, err := svc.GetPaymentMethod(context.Background(), "345678", "1010")
	require.NoError(t, err)
	assert.Equal(t, "BankTransfer", pm.Type)
	assert.Equal(t, "1010", pm.AccountID)
}

func TestGetPaymentMethodWrongOwner(t *testing.T) {
	svc := newService(t)

	// Method 12345 belongs to account 1000; the lookup is partition
	// scoped, so another account cannot see it.
	_, err := svc.GetPaymentMethod(context.Background(), "12345", "1010")
	assert.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
}

func TestGetBeneficiary(t *testing.T) {
	svc := newService(t)

	b, err := svc.GetBeneficiary(context.Background(), "3", "1010")
	require.NoError(t, err)
	assert.Equal(t, "Sarah TheAccountant", b.FullName)
	assert.Equal(t, "555123456", b.BankCode)
}

func TestGetBeneficiaryNotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetBeneficiary(context.Background(), "99", "1010")
	assert.ErrorIs(t, err, domain.ErrBeneficiaryNotFound)
}
