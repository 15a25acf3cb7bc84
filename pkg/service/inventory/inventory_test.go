package inventory

import (
	"context"
	"io"
	"log/slog"
	"sync"
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
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, fixtures.Seed(context.Background(), client, logger))
	return New(client, logger)
}

func TestListItems(t *testing.T) {
	svc := newService(t)

	items, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestListByCategory(t *testing.T) {
	svc := newService(t)

	items, err := svc.ListByCategory(context.Background(), "bearings")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "bearings", item.Category)
	}

	none, err := svc.ListByCategory(context.Background(), "gaskets")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListLowStock(t *testing.T) {
	svc := newService(t)

	items, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	ids := []string{items[0].ItemID, items[1].ItemID}
	assert.ElementsMatch(t, []string{"PART-002", "PART-004"}, ids)
}

func TestCheckStockAvailable(t *testing.T) {
	svc := newService(t)

	check, err := svc.CheckStock(context.Background(), "PART-001")
	require.NoError(t, err)
	assert.True(t, check.Available)
	assert.Equal(t, 45, check.StockQuantity)
	assert.Nil(t, check.EstimatedDeliveryDays)
}

func TestCheckStockOutOfStockQuotesDelivery(t *testing.T) {
	svc := newService(t)

	check, err := svc.CheckStock(context.Background(), "PART-004")
	require.NoError(t, err)
	assert.False(t, check.Available)
	require.NotNil(t, check.EstimatedDeliveryDays)
	assert.Equal(t, 7, *check.EstimatedDeliveryDays)
}

func TestCheckStockUnknownItem(t *testing.T) {
	svc := newService(t)

	_, err := svc.CheckStock(context.Background(), "PART-999")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestReserveDecrementsStock(t *testing.T) {
	svc := newService(t)

	reservation, err := svc.Reserve(context.Background(), domain.ReservationRequest{
		ItemID:      "PART-001",
		Quantity:    5,
		RequestedBy: "TECH-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", reservation.Status)
	assert.Equal(t, "Industrial Bearing SKF 6205", reservation.ItemName)

	check, err := svc.CheckStock(context.Background(), "PART-001")
	require.NoError(t, err)
	assert.Equal(t, 40, check.StockQuantity)

	fetched, err := svc.GetReservation(context.Background(), reservation.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, 5, fetched.Quantity)
}

func TestReserveInsufficientStock(t *testing.T) {
	svc := newService(t)

	_, err := svc.Reserve(context.Background(), domain.ReservationRequest{
		ItemID:   "PART-002",
		Quantity: 9,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	check, err := svc.CheckStock(context.Background(), "PART-002")
	require.NoError(t, err)
	assert.Equal(t, 8, check.StockQuantity)
}

func TestReserveInvalidRequest(t *testing.T) {
	svc := newService(t)

	_, err := svc.Reserve(context.Background(), domain.ReservationRequest{ItemID: "PART-001"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

// Concurrent reservations that together exactly drain the stock must all
// commit without overselling.
func TestReserveConcurrent(t *testing.T) {
	const workers = 8
	client := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, fixtures.Seed(context.Background(), client, logger))
	svc := New(client, logger, WithMaxRetries(workers*3))

	// PART-002 has 8 in stock; 8 workers take one each.
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), domain.ReservationRequest{
				ItemID:   "PART-002",
				Quantity: 1,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	check, err := svc.CheckStock(context.Background(), "PART-002")
	require.NoError(t, err)
	assert.Equal(t, 0, check.StockQuantity)

	reservations, err := svc.ListReservations(context.Background())
	require.NoError(t, err)
	assert.Len(t, reservations, workers)
}
