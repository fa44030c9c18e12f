package models

import "time"

// Event types
const (
	EventTypePurchaseCompleted = "PURCHASE_COMPLETED"
	EventTypeProductDepleted   = "PRODUCT_DEPLETED"
	EventTypeOrdersSwept       = "ORDERS_SWEPT"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// PurchaseCompletedEvent published after a purchase transaction commits
type PurchaseCompletedEvent struct {
	BaseEvent
	Buyer     string `json:"buyer"`
	ProductID int64  `json:"product_id"`
	Units     int    `json:"units"`
	UnitPrice string `json:"unit_price"`
	OrderID   int64  `json:"order_id,omitempty"`
	OrderDate string `json:"order_date,omitempty"`
}

// ProductDepletedEvent published when a purchase empties a product and
// removes it from the catalog
type ProductDepletedEvent struct {
	BaseEvent
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}

// OrdersSweptEvent published when a sweep removes expired orders
type OrdersSweptEvent struct {
	BaseEvent
	Date    string `json:"date"`
	Removed int64  `json:"removed"`
}
