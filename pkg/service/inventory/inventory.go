// Package inventory manages spare-part stock and reservations. Items are
// partitioned by category; reserving stock reuses the same etag
// compare-and-set discipline as the account ledger so concurrent
// reservations cannot oversell an item.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

const (
	defaultTimeout    = 5 * time.Second
	defaultMaxRetries = 3

	// outOfStockDeliveryDays is quoted when an item has no stock.
	outOfStockDeliveryDays = 7
)

// Service provides inventory reads and reservations.
type Service struct {
	items        docstore.Container
	reservations docstore.Container
	logger       *slog.Logger
	timeout      time.Duration
	maxRetries   int
	now          func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithMaxRetries bounds the optimistic-concurrency retry loop on stock
// updates.
func WithMaxRetries(n int) Option {
	return func(s *Service) { s.maxRetries = n }
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds an inventory service.
func New(client docstore.Client, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		items:        client.Container(docstore.ContainerInventory),
		reservations: client.Container(docstore.ContainerReservations),
		logger:       logger,
		timeout:      defaultTimeout,
		maxRetries:   defaultMaxRetries,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListItems returns every inventory item (cross-partition scan).
func (s *Service) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.scanItems(ctx, docstore.Query{})
}

// ListByCategory returns the items in one category (in-partition scan).
func (s *Service) ListByCategory(ctx context.Context, category string) ([]domain.InventoryItem, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.items.Query(cctx, docstore.Query{PartitionKey: category})
	if err != nil {
		return nil, fmt.Errorf("list category %s: %w", category, err)
	}
	return decodeItems(docs)
}

// ListLowStock returns items at or below their reorder threshold. The
// threshold compares two document fields, so the predicate runs here
// rather than in the store.
func (s *Service) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	low := items[:0]
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// CheckStock reports availability for one item. Only the item id is known,
// so this is a cross-partition lookup.
func (s *Service) CheckStock(ctx context.Context, itemID string) (*domain.StockCheck, error) {
	item, _, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	check := &domain.StockCheck{
		ItemID:        item.ItemID,
		Available:     item.StockQuantity > 0,
		StockQuantity: item.StockQuantity,
		Location:      item.Location,
	}
	if !check.Available {
		days := outOfStockDeliveryDays
		check.EstimatedDeliveryDays = &days
	}
	return check, nil
}

// Reserve decrements stock and records a reservation. The decrement is an
// etag-conditioned replace retried on lost races, mirroring the ledger's
// balance debit.
func (s *Service) Reserve(ctx context.Context, req domain.ReservationRequest) (*domain.Reservation, error) {
	if req.ItemID == "" || req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: item_id and a positive quantity are required", domain.ErrInvalidRequest)
	}

	var reserved *domain.InventoryItem
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		item, doc, err := s.findItem(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}
		if item.StockQuantity < req.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		item.StockQuantity -= req.Quantity
		item.LastUpdated = domain.FormatTimestamp(s.now())

		body, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		doc.Body = body

		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err = s.items.Replace(cctx, doc, doc.ETag)
		cancel()
		if err == nil {
			reserved = item
			break
		}
		if !errors.Is(err, docstore.ErrPreconditionFailed) {
			return nil, fmt.Errorf("update stock for %s: %w", req.ItemID, err)
		}
		s.logger.Warn("stock update lost a concurrent race, retrying",
			"item_id", req.ItemID, "attempt", attempt)
	}
	if reserved == nil {
		return nil, domain.ErrConflict
	}

	reservation := domain.Reservation{
		ReservationID: uuid.NewString(),
		ItemID:        reserved.ItemID,
		ItemName:      reserved.Name,
		Quantity:      req.Quantity,
		RequestedBy:   req.RequestedBy,
		Status:        "confirmed",
		CreatedAt:     domain.FormatTimestamp(s.now()),
	}
	body, err := json.Marshal(reservation)
	if err != nil {
		return nil, err
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.reservations.Upsert(cctx, &docstore.Doc{
		ID:           reservation.ReservationID,
		PartitionKey: reservation.ReservationID,
		Body:         body,
	}); err != nil {
		return nil, fmt.Errorf("save reservation: %w", err)
	}
	s.logger.Info("stock reserved",
		"item_id", reserved.ItemID,
		"quantity", req.Quantity,
		"reservation_id", reservation.ReservationID)
	return &reservation, nil
}

// ListReservations returns every reservation.
func (s *Service) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.reservations.QueryAll(cctx, docstore.Query{OrderBy: "created_at", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	out := make([]domain.Reservation, 0, len(docs))
	for _, doc := range docs {
		var r domain.Reservation
		if err := json.Unmarshal(doc.Body, &r); err != nil {
			return nil, fmt.Errorf("decode reservation %s: %w", doc.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// GetReservation returns one reservation by id.
func (s *Service) GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	doc, err := s.reservations.ReadItem(cctx, reservationID, reservationID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read reservation %s: %w", reservationID, err)
	}
	var r domain.Reservation
	if err := json.Unmarshal(doc.Body, &r); err != nil {
		return nil, fmt.Errorf("decode reservation %s: %w", reservationID, err)
	}
	return &r, nil
}

func (s *Service) findItem(ctx context.Context, itemID string) (*domain.InventoryItem, *docstore.Doc, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.items.QueryAll(cctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("item_id", itemID)},
		Limit:   1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("find item %s: %w", itemID, err)
	}
	if len(docs) == 0 {
		return nil, nil, domain.ErrItemNotFound
	}
	var item domain.InventoryItem
	if err := json.Unmarshal(docs[0].Body, &item); err != nil {
		return nil, nil, fmt.Errorf("decode item %s: %w", itemID, err)
	}
	return &item, docs[0], nil
}

func (s *Service) scanItems(ctx context.Context, q docstore.Query) ([]domain.InventoryItem, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.items.QueryAll(cctx, q)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return decodeItems(docs)
}

func decodeItems(docs []*docstore.Doc) ([]domain.InventoryItem, error) {
	out := make([]domain.InventoryItem, 0, len(docs))
	for _, doc := range docs {
		var item domain.InventoryItem
		if err := json.Unmarshal(doc.Body, &item); err != nil {
			return nil, fmt.Errorf("decode item %s: %w", doc.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}
