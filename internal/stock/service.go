package stock

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
)

// Service exposes the standalone stock operations. Quantity mutations run in
// their own guarded transaction; composite flows (item creation, order
// placement) drive the repository through their unit of work instead.
type Service struct {
	logger *slog.Logger
	pool   *pgxpool.Pool
	repo   Repository
}

// NewService constructs the stock service.
func NewService(logger *slog.Logger, pool *pgxpool.Pool, repo Repository) *Service {
	return &Service{logger: logger, pool: pool, repo: repo}
}

// SetQuantity replaces the quantity of a stock row.
func (s *Service) SetQuantity(ctx context.Context, stockID, quantity int64) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	err := db.WithTx(ctx, s.pool, func(q db.Querier) error {
		return s.repo.UpdateQuantity(ctx, q, stockID, quantity)
	})
	if err != nil {
		s.logger.Warn("set stock quantity failed", slog.Int64("stock_id", stockID), slog.Any("error", err))
		return err
	}
	s.logger.Info("stock quantity updated", slog.Int64("stock_id", stockID), slog.Int64("quantity", quantity))
	return nil
}

// Delete removes a stock row.
func (s *Service) Delete(ctx context.Context, stockID int64) error {
	err := db.WithTx(ctx, s.pool, func(q db.Querier) error {
		return s.repo.Delete(ctx, q, stockID)
	})
	if err != nil {
		s.logger.Warn("delete stock failed", slog.Int64("stock_id", stockID), slog.Any("error", err))
	}
	return err
}

// Quantity returns the current quantity for an item.
func (s *Service) Quantity(ctx context.Context, itemID int64) (int64, error) {
	return s.repo.Quantity(ctx, s.pool, itemID)
}

// List returns all stock rows.
func (s *Service) List(ctx context.Context) ([]Stock, error) {
	return s.repo.List(ctx, s.pool)
}
