// Package orders implements order management: CRUD on order headers and
// lines, and the transactional place-order-with-items workflow that
// decrements finite stock under row-level locks.
package orders

import "time"

// Order is an order header with its line items attached.
type Order struct {
	ID           int64       `json:"order_id"`
	CustomerName string      `json:"customer_name"`
	OrderDate    time.Time   `json:"order_date"`
	TotalAmount  float64     `json:"total_amount"`
	CreatedBy    string      `json:"created_by"`
	CreatedDate  time.Time   `json:"created_date"`
	UpdatedBy    *string     `json:"updated_by,omitempty"`
	UpdatedDate  *time.Time  `json:"updated_date,omitempty"`
	IsActive     bool        `json:"is_active"`
	Items        []OrderItem `json:"order_items"`
}

// OrderItem is one line of an order. TotalPrice is quantity times unit price,
// computed by the store.
type OrderItem struct {
	ID          int64   `json:"order_item_id"`
	OrderID     int64   `json:"order_id"`
	ItemID      int64   `json:"item_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}
