package domain

import "time"

type CatalogEventType string

const (
	EventProductCreated CatalogEventType = "product.created"
	EventProductDeleted CatalogEventType = "product.deleted"
	EventStockUpdated   CatalogEventType = "inventory.stock_updated"
	EventLowStock       CatalogEventType = "inventory.low_stock"
)

// CatalogEvent is published after a successful write.
type CatalogEvent struct {
	EventID         string           `json:"event_id"`
	Type            CatalogEventType `json:"type"`
	ProductID       string           `json:"product_id"`
	Quantity        int              `json:"quantity"`
	MinimumQuantity int              `json:"minimum_quantity"`
	Timestamp       time.Time        `json:"timestamp"`
}
