package orders

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// AddOrderItemParams carries one line insert bound to an order id already
// created inside the same transaction.
type AddOrderItemParams struct {
	OrderID     int64
	ItemID      int64
	ProductName string
	Quantity    int64
	UnitPrice   float64
}

// OrderItemRepository binds the order-line stored routines.
type OrderItemRepository interface {
	Add(ctx context.Context, q db.Querier, p AddOrderItemParams) (int64, error)
	Update(ctx context.Context, q db.Querier, req UpdateOrderItemRequest) error
	Delete(ctx context.Context, q db.Querier, orderItemID int64) error
}

type orderItemRepository struct{}

// NewOrderItemRepository constructs the PostgreSQL-backed order-line
// repository.
func NewOrderItemRepository() OrderItemRepository {
	return orderItemRepository{}
}

func (orderItemRepository) Add(ctx context.Context, q db.Querier, p AddOrderItemParams) (int64, error) {
	var orderItemID int64
	err := q.QueryRow(ctx, `SELECT public.add_order_item($1, $2, $3, $4, $5)`,
		p.OrderID, p.ItemID, p.ProductName, p.Quantity, p.UnitPrice).
		Scan(&orderItemID)
	if err != nil {
		return 0, err
	}
	return orderItemID, nil
}

func (orderItemRepository) Update(ctx context.Context, q db.Querier, req UpdateOrderItemRequest) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM public.update_order_item($1, $2, $3, $4, $5)`,
		req.ID, req.ProductName, req.Quantity, req.UnitPrice, req.UpdatedBy).
		Scan(&code, &message)
	if err != nil {
		return err
	}
	return shared.RoutineError(code, message)
}

func (orderItemRepository) Delete(ctx context.Context, q db.Querier, orderItemID int64) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM public.delete_order_item($1)`, orderItemID).Scan(&code, &message)
	if err != nil {
		return err
	}
	return shared.RoutineError(code, message)
}
