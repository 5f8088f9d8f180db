package items

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Service orchestrates item operations. It is the only caller that opens,
// commits or rolls back a unit of work for the item module.
type Service struct {
	logger *slog.Logger
	uowf   UnitOfWorkFactory
	repo   Repository
	pool   *pgxpool.Pool
	audit  AuditPort
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// NewService constructs the item service.
func NewService(logger *slog.Logger, uowf UnitOfWorkFactory, repo Repository, pool *pgxpool.Pool, audit AuditPort) *Service {
	return &Service{logger: logger, uowf: uowf, repo: repo, pool: pool, audit: audit}
}

// Create inserts the item and its stock row atomically. An item must never
// exist without a stock row and vice versa; any failed step rolls back the
// whole pair and the first failure is reported.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (CreatedItem, error) {
	s.logger.Info("creating item", slog.String("item_name", req.Name))

	uow, err := s.uowf(ctx)
	if err != nil {
		s.logger.Error("open unit of work failed", slog.Any("error", err))
		return CreatedItem{}, err
	}
	defer uow.Close(ctx)

	if err := uow.Begin(ctx); err != nil {
		s.logger.Error("begin transaction failed", slog.Any("error", err))
		return CreatedItem{}, err
	}

	itemID, err := uow.Items().Create(ctx, uow.Querier(), req)
	if err != nil {
		uow.Rollback(ctx)
		s.logger.Warn("create item failed", slog.String("item_name", req.Name), slog.Any("error", err))
		return CreatedItem{}, err
	}

	if err := uow.Stock().Create(ctx, uow.Querier(), itemID); err != nil {
		uow.Rollback(ctx)
		s.logger.Warn("create stock failed", slog.Int64("item_id", itemID), slog.Any("error", err))
		return CreatedItem{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		uow.Rollback(ctx)
		s.logger.Error("commit failed", slog.Int64("item_id", itemID), slog.Any("error", err))
		return CreatedItem{}, err
	}

	s.recordAudit(ctx, "item.create", itemID)
	s.logger.Info("item and stock created", slog.Int64("item_id", itemID), slog.String("item_name", req.Name))
	return CreatedItem{ItemID: itemID, Name: req.Name}, nil
}

// Update rewrites the item's mutable fields in its own transaction.
func (s *Service) Update(ctx context.Context, req UpdateItemRequest) error {
	err := db.WithTx(ctx, s.pool, func(q db.Querier) error {
		return s.repo.Update(ctx, q, req)
	})
	if err != nil {
		s.logger.Warn("update item failed", slog.Int64("item_id", req.ID), slog.Any("error", err))
		return err
	}
	s.recordAudit(ctx, "item.update", req.ID)
	return nil
}

// Delete soft-deletes the item.
func (s *Service) Delete(ctx context.Context, itemID int64) error {
	err := db.WithTx(ctx, s.pool, func(q db.Querier) error {
		return s.repo.Delete(ctx, q, itemID)
	})
	if err != nil {
		s.logger.Warn("delete item failed", slog.Int64("item_id", itemID), slog.Any("error", err))
		return err
	}
	s.recordAudit(ctx, "item.delete", itemID)
	return nil
}

// List returns all non-deleted items.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx, s.pool)
}

func (s *Service) recordAudit(ctx context.Context, action string, itemID int64) {
	if s.audit == nil {
		return
	}
	id := shared.IdentityFromContext(ctx)
	err := s.audit.Record(ctx, shared.AuditLog{
		Actor:    id.Username,
		Action:   action,
		Entity:   "item",
		EntityID: formatID(itemID),
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
