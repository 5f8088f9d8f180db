package stock

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/platform/httpx"
	"github.com/orderdesk/orderdesk/internal/shared"
)

type fakeRepo struct {
	quantities map[int64]int64
}

func (f fakeRepo) Create(context.Context, db.Querier, int64) error { return nil }
func (f fakeRepo) UpdateQuantity(context.Context, db.Querier, int64, int64) error {
	return nil
}
func (f fakeRepo) Delete(context.Context, db.Querier, int64) error { return nil }

func (f fakeRepo) Quantity(ctx context.Context, q db.Querier, itemID int64) (int64, error) {
	quantity, ok := f.quantities[itemID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return quantity, nil
}

func (f fakeRepo) ForUpdate(ctx context.Context, q db.Querier, itemID int64) (Stock, error) {
	quantity, ok := f.quantities[itemID]
	if !ok {
		return Stock{}, shared.ErrNotFound
	}
	return Stock{ID: itemID, ItemID: itemID, Quantity: quantity}, nil
}

func (f fakeRepo) Decrement(context.Context, db.Querier, int64, int64) error { return nil }

func (f fakeRepo) List(ctx context.Context, q db.Querier) ([]Stock, error) {
	var stocks []Stock
	for itemID, quantity := range f.quantities {
		stocks = append(stocks, Stock{ID: itemID, ItemID: itemID, Quantity: quantity})
	}
	return stocks, nil
}

func TestSetQuantityRejectsNegative(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, fakeRepo{})

	err := svc.SetQuantity(context.Background(), 1, -5)
	require.ErrorIs(t, err, ErrNegativeQuantity)
	require.ErrorIs(t, err, shared.ErrValidation)

	rr := httptest.NewRecorder()
	httpx.RespondError(rr, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQuantityUnknownItem(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, fakeRepo{quantities: map[int64]int64{1: 10}})

	_, err := svc.Quantity(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func newTestRouter(repo fakeRepo) http.Handler {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, repo)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/api/stock", h.MountRoutes)
	return r
}

func TestQuantityEndpoint(t *testing.T) {
	router := newTestRouter(fakeRepo{quantities: map[int64]int64{7: 42}})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stock/items/7", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope httpx.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Code)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), data["quantity"])
}

func TestQuantityEndpointNotFound(t *testing.T) {
	router := newTestRouter(fakeRepo{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stock/items/9", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQuantityEndpointBadID(t *testing.T) {
	router := newTestRouter(fakeRepo{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stock/items/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
