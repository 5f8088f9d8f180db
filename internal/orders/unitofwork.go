package orders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/stock"
)

// UnitOfWork owns one connection/transaction pair for the order composite
// operations and exposes the repositories bound to it. All repository calls
// made with Querier() between Begin and Commit run in the same transaction
// and therefore see each other's writes and hold each other's locks.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
	Close(ctx context.Context)
	Querier() db.Querier
	Orders() Repository
	OrderItems() OrderItemRepository
	Stock() stock.Repository
}

// UnitOfWorkFactory opens a fresh UnitOfWork per composite operation.
type UnitOfWorkFactory func(ctx context.Context) (UnitOfWork, error)

type pgUnitOfWork struct {
	*db.UnitOfWork
	orders     Repository
	orderItems OrderItemRepository
	stock      stock.Repository
}

func (u *pgUnitOfWork) Orders() Repository              { return u.orders }
func (u *pgUnitOfWork) OrderItems() OrderItemRepository { return u.orderItems }
func (u *pgUnitOfWork) Stock() stock.Repository         { return u.stock }

// NewUnitOfWorkFactory binds the factory to a pool and repository set.
func NewUnitOfWorkFactory(pool *pgxpool.Pool, orders Repository, orderItems OrderItemRepository, stockRepo stock.Repository) UnitOfWorkFactory {
	return func(ctx context.Context) (UnitOfWork, error) {
		uow, err := db.NewUnitOfWork(ctx, pool)
		if err != nil {
			return nil, err
		}
		return &pgUnitOfWork{UnitOfWork: uow, orders: orders, orderItems: orderItems, stock: stockRepo}, nil
	}
}
