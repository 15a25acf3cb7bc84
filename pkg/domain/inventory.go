package domain

import "github.com/shopspring/decimal"

// InventoryItem is a spare part or component document, partitioned by
// Category. Field names follow the inventory wire contract (snake_case).
type InventoryItem struct {
	ItemID        string          `json:"item_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	Location      string          `json:"location"`
	MinStockLevel int             `json:"min_stock_level"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Supplier      string          `json:"supplier"`
	LastUpdated   string          `json:"last_updated"`
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i InventoryItem) LowStock() bool {
	return i.StockQuantity <= i.MinStockLevel
}

// StockCheck is the availability projection returned by the stock-check
// endpoint.
type StockCheck struct {
	ItemID                string `json:"item_id"`
	Available             bool   `json:"available"`
	StockQuantity         int    `json:"stock_quantity"`
	Location              string `json:"location,omitempty"`
	EstimatedDeliveryDays *int   `json:"estimated_delivery_days"`
}

// ReservationRequest asks the inventory service to set aside stock.
type ReservationRequest struct {
	ItemID      string `json:"item_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// Reservation records stock set aside for a requester, partitioned by its
// own id.
type Reservation struct {
	ReservationID string `json:"reservation_id"`
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name,omitempty"`
	Quantity      int    `json:"quantity"`
	RequestedBy   string `json:"requested_by,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}
