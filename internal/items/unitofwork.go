package items

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/stock"
)

// UnitOfWork owns one connection/transaction pair for the item composite
// operations and exposes the repositories bound to it. Repository calls made
// with Querier() participate in the active transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
	Close(ctx context.Context)
	Querier() db.Querier
	Items() Repository
	Stock() stock.Repository
}

// UnitOfWorkFactory opens a fresh UnitOfWork per composite operation.
type UnitOfWorkFactory func(ctx context.Context) (UnitOfWork, error)

type pgUnitOfWork struct {
	*db.UnitOfWork
	items Repository
	stock stock.Repository
}

func (u *pgUnitOfWork) Items() Repository       { return u.items }
func (u *pgUnitOfWork) Stock() stock.Repository { return u.stock }

// NewUnitOfWorkFactory binds the factory to a pool and repository set.
func NewUnitOfWorkFactory(pool *pgxpool.Pool, items Repository, stockRepo stock.Repository) UnitOfWorkFactory {
	return func(ctx context.Context) (UnitOfWork, error) {
		uow, err := db.NewUnitOfWork(ctx, pool)
		if err != nil {
			return nil, err
		}
		return &pgUnitOfWork{UnitOfWork: uow, items: items, stock: stockRepo}, nil
	}
}
