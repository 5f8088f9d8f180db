package items

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Repository binds the item stored routines. Calls take their handle
// explicitly so transactional participation is visible at each call site.
type Repository interface {
	Create(ctx context.Context, q db.Querier, req CreateItemRequest) (int64, error)
	Update(ctx context.Context, q db.Querier, req UpdateItemRequest) error
	Delete(ctx context.Context, q db.Querier, itemID int64) error
	List(ctx context.Context, q db.Querier) ([]Item, error)
}

type repository struct{}

// NewRepository constructs the PostgreSQL-backed item repository.
func NewRepository() Repository {
	return repository{}
}

// Create inserts the item and returns its new id. The routine reports
// failures such as a duplicate name as an (error_code, message) pair.
func (repository) Create(ctx context.Context, q db.Querier, req CreateItemRequest) (int64, error) {
	var itemID *int64
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM inventory.create_item($1, $2, $3)`, req.Name, req.Description, req.Category).
		Scan(&itemID, &code, &message)
	if err != nil {
		return 0, translatePgError(err)
	}
	if err := shared.RoutineError(code, message); err != nil {
		return 0, err
	}
	if itemID == nil {
		return 0, &shared.Error{Code: code, Message: message}
	}
	return *itemID, nil
}

func (repository) Update(ctx context.Context, q db.Querier, req UpdateItemRequest) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM inventory.update_item($1, $2, $3, $4, $5)`,
		req.ID, req.Name, req.Description, req.Category, req.UpdatedBy).
		Scan(&code, &message)
	if err != nil {
		return translatePgError(err)
	}
	return shared.RoutineError(code, message)
}

// Delete soft-deletes the item; the row stays behind existing order lines.
func (repository) Delete(ctx context.Context, q db.Querier, itemID int64) error {
	var code int32
	var message string
	err := q.QueryRow(ctx, `SELECT * FROM inventory.delete_item($1)`, itemID).Scan(&code, &message)
	if err != nil {
		return translatePgError(err)
	}
	return shared.RoutineError(code, message)
}

func (repository) List(ctx context.Context, q db.Querier) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT item_id, item_name, item_description, item_category, created_by, created_date
		FROM inventory.items
		WHERE is_deleted = FALSE
		ORDER BY created_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Category, &it.CreatedBy, &it.CreatedDate); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
