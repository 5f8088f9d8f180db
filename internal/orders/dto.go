package orders

// CreateOrderRequest creates an order header without lines.
type CreateOrderRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=200"`
	CreatedBy    string `json:"-"`
}

// OrderLineRequest is one requested line of a placed order.
type OrderLineRequest struct {
	ItemID      int64   `json:"item_id" validate:"required,gt=0"`
	ProductName string  `json:"product_name" validate:"required,max=200"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// PlaceOrderRequest places an order together with its lines against stock.
type PlaceOrderRequest struct {
	CustomerName   string             `json:"customer_name" validate:"required,max=200"`
	Items          []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	CreatedBy      string             `json:"-"`
	IdempotencyKey string             `json:"-"`
}

// PlacedOrder reports the id of a successfully placed order.
type PlacedOrder struct {
	OrderID int64 `json:"order_id"`
}

// UpdateOrderRequest rewrites the order header's mutable fields.
type UpdateOrderRequest struct {
	ID           int64  `json:"order_id" validate:"required,gt=0"`
	CustomerName string `json:"customer_name" validate:"required,max=200"`
	UpdatedBy    string `json:"-"`
}

// AddOrderItemRequest appends one line to an existing order, checked against
// stock.
type AddOrderItemRequest struct {
	OrderID     int64   `json:"order_id" validate:"required,gt=0"`
	ItemID      int64   `json:"item_id" validate:"required,gt=0"`
	ProductName string  `json:"product_name" validate:"required,max=200"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// UpdateOrderItemRequest rewrites an order line's mutable fields.
type UpdateOrderItemRequest struct {
	ID          int64   `json:"order_item_id" validate:"required,gt=0"`
	ProductName string  `json:"product_name" validate:"required,max=200"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	UpdatedBy   string  `json:"-"`
}
