package orders

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Repository binds the order-header stored routines. Mutating calls take
// their handle explicitly; passing a unit of work's transaction makes the
// call part of that transaction, passing the pool makes it standalone.
type Repository interface {
	Create(ctx context.Context, q db.Querier, customerName string, orderDate time.Time, createdBy string) (int64, error)
	Update(ctx context.Context, q db.Querier, req UpdateOrderRequest) error
	Delete(ctx context.Context, q db.Querier, orderID int64) error
	DeleteWithItems(ctx context.Context, q db.Querier, orderID int64) error
	GetWithItems(ctx context.Context, q db.Querier, orderID int64) (*Order, error)
	GetAll(ctx context.Context, q db.Querier) ([]Order, error)
}

type repository struct{}

// NewRepository constructs the PostgreSQL-backed order repository.
func NewRepository() Repository {
	return repository{}
}

func (repository) Create(ctx context.Context, q db.Querier, customerName string, orderDate time.Time, createdBy string) (int64, error) {
	var orderID int64
	err := q.QueryRow(ctx, `SELECT public.create_order($1, $2, $3)`, customerName, orderDate, createdBy).Scan(&orderID)
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

func (repository) Update(ctx context.Context, q db.Querier, req UpdateOrderRequest) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM public.update_order($1, $2, $3, $4)`,
		req.ID, req.CustomerName, time.Now().UTC(), req.UpdatedBy).
		Scan(&code, &message)
	if err != nil {
		return err
	}
	return shared.RoutineError(code, message)
}

func (repository) Delete(ctx context.Context, q db.Querier, orderID int64) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM public.delete_order($1)`, orderID).Scan(&code, &message)
	if err != nil {
		return err
	}
	return shared.RoutineError(code, message)
}

// DeleteWithItems removes the order and cascades deletion to its line rows in
// the same statement, so a committed deletion never leaves orphaned lines
// visible.
func (repository) DeleteWithItems(ctx context.Context, q db.Querier, orderID int64) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM public.delete_order_with_items($1)`, orderID).Scan(&code, &message)
	if err != nil {
		return err
	}
	return shared.RoutineError(code, message)
}

func (repository) GetWithItems(ctx context.Context, q db.Querier, orderID int64) (*Order, error) {
	rows, err := q.Query(ctx, `SELECT * FROM public.get_order_with_items($1)`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrderRows(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, shared.ErrNotFound
	}
	return &orders[0], nil
}

func (repository) GetAll(ctx context.Context, q db.Querier) ([]Order, error) {
	rows, err := q.Query(ctx, `SELECT * FROM public.get_all_orders()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrderRows(rows)
}

// collectOrderRows flattens the outer-joined (order, item) result client
// side: rows are grouped by order id and non-empty item rows appended to that
// order's list. An item row whose item_id is NULL or zero is the outer-join
// marker for "order without lines" and is skipped.
func collectOrderRows(rows pgx.Rows) ([]Order, error) {
	var orders []Order
	index := make(map[int64]int)

	for rows.Next() {
		var o Order
		var updatedBy pgtype.Text
		var updatedDate pgtype.Timestamptz
		var itemID, orderItemID, quantity pgtype.Int8
		var productName pgtype.Text
		var unitPrice, totalPrice pgtype.Float8

		err := rows.Scan(
			&o.ID, &o.CustomerName, &o.OrderDate, &o.TotalAmount,
			&o.CreatedBy, &o.CreatedDate, &updatedBy, &updatedDate, &o.IsActive,
			&itemID, &orderItemID, &productName, &quantity, &unitPrice, &totalPrice,
		)
		if err != nil {
			return nil, err
		}

		pos, seen := index[o.ID]
		if !seen {
			if updatedBy.Valid {
				o.UpdatedBy = &updatedBy.String
			}
			if updatedDate.Valid {
				t := updatedDate.Time
				o.UpdatedDate = &t
			}
			orders = append(orders, o)
			pos = len(orders) - 1
			index[o.ID] = pos
		}

		if !itemID.Valid || itemID.Int64 == 0 {
			continue
		}
		orders[pos].Items = append(orders[pos].Items, OrderItem{
			ID:          orderItemID.Int64,
			OrderID:     o.ID,
			ItemID:      itemID.Int64,
			ProductName: productName.String,
			Quantity:    quantity.Int64,
			UnitPrice:   unitPrice.Float64,
			TotalPrice:  totalPrice.Float64,
		})
	}
	return orders, rows.Err()
}
