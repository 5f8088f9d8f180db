package stock

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Repository binds the stock stored routines. Each call takes the handle it
// should run on, so transactional calls are textually distinguishable from
// standalone ones at the call site.
type Repository interface {
	Create(ctx context.Context, q db.Querier, itemID int64) error
	UpdateQuantity(ctx context.Context, q db.Querier, stockID, quantity int64) error
	Delete(ctx context.Context, q db.Querier, stockID int64) error
	Quantity(ctx context.Context, q db.Querier, itemID int64) (int64, error)
	ForUpdate(ctx context.Context, q db.Querier, itemID int64) (Stock, error)
	Decrement(ctx context.Context, q db.Querier, itemID, quantity int64) error
	List(ctx context.Context, q db.Querier) ([]Stock, error)
}

type repository struct{}

// NewRepository constructs the PostgreSQL-backed stock repository.
func NewRepository() Repository {
	return repository{}
}

// Create inserts the stock row for a new item, quantity initialised to zero
// by the routine.
func (repository) Create(ctx context.Context, q db.Querier, itemID int64) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM inventory.create_stock($1)`, itemID).Scan(&code, &message)
	if err != nil {
		return translatePgError(err)
	}
	return shared.RoutineError(code, message)
}

func (repository) UpdateQuantity(ctx context.Context, q db.Querier, stockID, quantity int64) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM inventory.update_stock_quantity($1, $2)`, stockID, quantity).Scan(&code, &message)
	if err != nil {
		return translatePgError(err)
	}
	return shared.RoutineError(code, message)
}

func (repository) Delete(ctx context.Context, q db.Querier, stockID int64) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM inventory.delete_stock($1)`, stockID).Scan(&code, &message)
	if err != nil {
		return translatePgError(err)
	}
	return shared.RoutineError(code, message)
}

// Quantity reads the current quantity without locking. The routine reports a
// negative sentinel for unknown items.
func (repository) Quantity(ctx context.Context, q db.Querier, itemID int64) (int64, error) {
	var quantity int64
	err := q.QueryRow(ctx, `SELECT inventory.get_stock_quantity($1)`, itemID).Scan(&quantity)
	if err != nil {
		return 0, translatePgError(err)
	}
	if quantity < 0 {
		return 0, shared.ErrNotFound
	}
	return quantity, nil
}

// ForUpdate takes a row-level exclusive lock on the item's stock row and
// returns it. The lock is held until the enclosing transaction commits or
// rolls back, serialising concurrent decrements of the same item.
func (repository) ForUpdate(ctx context.Context, q db.Querier, itemID int64) (Stock, error) {
	var s Stock
	err := q.QueryRow(ctx, `SELECT stock_id, item_id, quantity FROM inventory.stock WHERE item_id = $1 FOR UPDATE`, itemID).
		Scan(&s.ID, &s.ItemID, &s.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Stock{}, shared.ErrNotFound
		}
		return Stock{}, err
	}
	return s, nil
}

// Decrement subtracts quantity from the item's stock row. Callers must hold
// the row lock via ForUpdate in the same transaction.
func (repository) Decrement(ctx context.Context, q db.Querier, itemID, quantity int64) error {
	tag, err := q.Exec(ctx, `UPDATE inventory.stock SET quantity = quantity - $1 WHERE item_id = $2`, quantity, itemID)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (repository) List(ctx context.Context, q db.Querier) ([]Stock, error) {
	rows, err := q.Query(ctx, `SELECT * FROM inventory.get_all_stocks()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []Stock
	for rows.Next() {
		var s Stock
		if err := rows.Scan(&s.ID, &s.ItemID, &s.Quantity); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// translatePgError maps unique violations onto the domain duplicate error;
// everything else propagates to the orchestration layer untouched.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
