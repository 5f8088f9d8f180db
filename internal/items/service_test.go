package items

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
	"github.com/orderdesk/orderdesk/internal/stock"
)

// fakeUnitOfWork stages item and stock creation and applies both on Commit.
// Rollback discards the staged pair, mirroring the all-or-nothing pairing the
// real transaction gives us.
type fakeUnitOfWork struct {
	open bool

	nextItemID int64
	itemErr    error
	stockErr   error
	commitErr  error

	stagedItems []int64
	stagedStock []int64

	committedItems []int64
	committedStock []int64

	rollbacks int
	closed    bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.open {
		return db.ErrTxOpen
	}
	u.open = true
	return nil
}

func (u *fakeUnitOfWork) Commit(ctx context.Context) error {
	if !u.open {
		return nil
	}
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committedItems = append(u.committedItems, u.stagedItems...)
	u.committedStock = append(u.committedStock, u.stagedStock...)
	u.stagedItems, u.stagedStock = nil, nil
	u.open = false
	return nil
}

func (u *fakeUnitOfWork) Rollback(ctx context.Context) {
	u.rollbacks++
	if !u.open {
		return
	}
	u.stagedItems, u.stagedStock = nil, nil
	u.open = false
}

func (u *fakeUnitOfWork) Close(ctx context.Context) {
	u.closed = true
	if u.open {
		u.Rollback(ctx)
	}
}

func (u *fakeUnitOfWork) Querier() db.Querier { return nil }
func (u *fakeUnitOfWork) Items() Repository   { return fakeItemRepo{u} }
func (u *fakeUnitOfWork) Stock() stock.Repository {
	return fakeStockRepo{u}
}

type fakeItemRepo struct{ u *fakeUnitOfWork }

func (r fakeItemRepo) Create(ctx context.Context, q db.Querier, req CreateItemRequest) (int64, error) {
	if r.u.itemErr != nil {
		return 0, r.u.itemErr
	}
	r.u.nextItemID++
	r.u.stagedItems = append(r.u.stagedItems, r.u.nextItemID)
	return r.u.nextItemID, nil
}

func (fakeItemRepo) Update(context.Context, db.Querier, UpdateItemRequest) error { return nil }
func (fakeItemRepo) Delete(context.Context, db.Querier, int64) error             { return nil }
func (fakeItemRepo) List(context.Context, db.Querier) ([]Item, error)            { return nil, nil }

type fakeStockRepo struct{ u *fakeUnitOfWork }

func (r fakeStockRepo) Create(ctx context.Context, q db.Querier, itemID int64) error {
	if r.u.stockErr != nil {
		return r.u.stockErr
	}
	r.u.stagedStock = append(r.u.stagedStock, itemID)
	return nil
}

func (fakeStockRepo) UpdateQuantity(context.Context, db.Querier, int64, int64) error {
	return nil
}
func (fakeStockRepo) Delete(context.Context, db.Querier, int64) error            { return nil }
func (fakeStockRepo) Quantity(context.Context, db.Querier, int64) (int64, error) { return 0, nil }
func (fakeStockRepo) ForUpdate(context.Context, db.Querier, int64) (stock.Stock, error) {
	return stock.Stock{}, nil
}
func (fakeStockRepo) Decrement(context.Context, db.Querier, int64, int64) error { return nil }
func (fakeStockRepo) List(context.Context, db.Querier) ([]stock.Stock, error)   { return nil, nil }

func newTestService(uow *fakeUnitOfWork) *Service {
	uowf := func(ctx context.Context) (UnitOfWork, error) { return uow, nil }
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), uowf, nil, nil, nil)
}

func TestCreatePersistsItemAndStockTogether(t *testing.T) {
	uow := &fakeUnitOfWork{}
	svc := newTestService(uow)

	created, err := svc.Create(context.Background(), CreateItemRequest{
		Name: "widget", Description: "a widget", Category: "tools",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ItemID)
	assert.Equal(t, "widget", created.Name)
	assert.Equal(t, []int64{1}, uow.committedItems)
	assert.Equal(t, []int64{1}, uow.committedStock)
	assert.True(t, uow.closed)
}

func TestCreateRollsBackWhenItemFails(t *testing.T) {
	wantErr := &shared.Error{Code: 1001, Message: "item name already exists"}
	uow := &fakeUnitOfWork{itemErr: wantErr}
	svc := newTestService(uow)

	_, err := svc.Create(context.Background(), CreateItemRequest{Name: "widget"})
	require.ErrorAs(t, err, new(*shared.Error))
	assert.Empty(t, uow.committedItems)
	assert.Empty(t, uow.committedStock)
	assert.NotZero(t, uow.rollbacks)
}

func TestCreateRollsBackWhenStockFails(t *testing.T) {
	uow := &fakeUnitOfWork{stockErr: shared.ErrDuplicate}
	svc := newTestService(uow)

	_, err := svc.Create(context.Background(), CreateItemRequest{Name: "widget"})
	require.ErrorIs(t, err, shared.ErrDuplicate)

	// The item staged before the stock failure must not survive.
	assert.Empty(t, uow.committedItems)
	assert.Empty(t, uow.committedStock)
	assert.NotZero(t, uow.rollbacks)
}

func TestCreateReportsCommitFailure(t *testing.T) {
	wantErr := errors.New("connection reset")
	uow := &fakeUnitOfWork{commitErr: wantErr}
	svc := newTestService(uow)

	_, err := svc.Create(context.Background(), CreateItemRequest{Name: "widget"})
	require.ErrorIs(t, err, wantErr)
	assert.Empty(t, uow.committedItems)
}

func TestCreateUowFactoryError(t *testing.T) {
	wantErr := errors.New("pool exhausted")
	uowf := func(ctx context.Context) (UnitOfWork, error) { return nil, wantErr }
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), uowf, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateItemRequest{Name: "widget"})
	require.ErrorIs(t, err, wantErr)
}
