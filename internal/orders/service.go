package orders

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/shared"
)

// IdempotencyPort reserves and releases request keys.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// MetricsPort counts placement outcomes.
type MetricsPort interface {
	OrderPlaced()
	OrderRejected(reason string)
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

const idempotencyModule = "orders"

// Service orchestrates order operations. It is the only caller that opens,
// commits or rolls back a unit of work for the order module.
type Service struct {
	logger  *slog.Logger
	uowf    UnitOfWorkFactory
	repo    Repository
	pool    *pgxpool.Pool
	idem    IdempotencyPort
	metrics MetricsPort
	audit   AuditPort
}

// NewService constructs the order service. idem, metrics and audit may be nil
// in tests.
func NewService(logger *slog.Logger, uowf UnitOfWorkFactory, repo Repository, pool *pgxpool.Pool, idem IdempotencyPort, metrics MetricsPort, audit AuditPort) *Service {
	return &Service{
		logger:  logger,
		uowf:    uowf,
		repo:    repo,
		pool:    pool,
		idem:    idem,
		metrics: metrics,
		audit:   audit,
	}
}

// PlaceWithItems creates an order header and all requested lines in one
// transaction, decrementing stock for each line under a row-level lock. Any
// failed step rolls back everything: no partial orders and no stock loss. A
// line asking for more than the locked row holds fails the whole placement
// with InsufficientStockError naming that item.
//
// Lines are processed in ascending item id order so two placements that share
// items always acquire the row locks in the same order and cannot deadlock.
func (s *Service) PlaceWithItems(ctx context.Context, req PlaceOrderRequest) (PlacedOrder, error) {
	s.logger.Info("placing order",
		slog.String("customer_name", req.CustomerName),
		slog.Int("line_count", len(req.Items)))

	if req.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, req.IdempotencyKey, idempotencyModule); err != nil {
			s.logger.Warn("idempotency check failed", slog.String("key", req.IdempotencyKey), slog.Any("error", err))
			return PlacedOrder{}, err
		}
	}

	placed, err := s.placeWithItems(ctx, req)
	if err != nil {
		s.releaseIdempotencyKey(ctx, req.IdempotencyKey)
		s.rejected(err)
		return PlacedOrder{}, err
	}

	if s.metrics != nil {
		s.metrics.OrderPlaced()
	}
	s.recordAudit(ctx, "order.place", placed.OrderID)
	s.logger.Info("order placed", slog.Int64("order_id", placed.OrderID))
	return placed, nil
}

func (s *Service) placeWithItems(ctx context.Context, req PlaceOrderRequest) (PlacedOrder, error) {
	var placed PlacedOrder
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		orderID, err := uow.Orders().Create(ctx, uow.Querier(), req.CustomerName, time.Now().UTC(), req.CreatedBy)
		if err != nil {
			s.logger.Warn("create order failed", slog.Any("error", err))
			return err
		}

		lines := make([]OrderLineRequest, len(req.Items))
		copy(lines, req.Items)
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })

		for _, line := range lines {
			if err := s.addLine(ctx, uow, orderID, line); err != nil {
				return err
			}
		}

		placed = PlacedOrder{OrderID: orderID}
		return nil
	})
	if err != nil {
		return PlacedOrder{}, err
	}
	return placed, nil
}

// withUnitOfWork opens a unit of work, runs fn inside its transaction and
// commits, rolling back when fn or the commit fails.
func (s *Service) withUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow, err := s.uowf(ctx)
	if err != nil {
		s.logger.Error("open unit of work failed", slog.Any("error", err))
		return err
	}
	defer uow.Close(ctx)

	if err := uow.Begin(ctx); err != nil {
		s.logger.Error("begin transaction failed", slog.Any("error", err))
		return err
	}
	if err := fn(uow); err != nil {
		uow.Rollback(ctx)
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		uow.Rollback(ctx)
		s.logger.Error("commit failed", slog.Any("error", err))
		return err
	}
	return nil
}

// addLine locks the line's stock row, verifies availability, inserts the line
// and decrements stock. It runs inside the placement transaction; the caller
// rolls back on error.
func (s *Service) addLine(ctx context.Context, uow UnitOfWork, orderID int64, line OrderLineRequest) error {
	st, err := uow.Stock().ForUpdate(ctx, uow.Querier(), line.ItemID)
	if err != nil {
		s.logger.Warn("lock stock failed", slog.Int64("item_id", line.ItemID), slog.Any("error", err))
		return err
	}
	if st.Quantity < line.Quantity {
		s.logger.Warn("insufficient stock",
			slog.Int64("item_id", line.ItemID),
			slog.Int64("requested", line.Quantity),
			slog.Int64("available", st.Quantity))
		return &shared.InsufficientStockError{ItemID: line.ItemID, Requested: line.Quantity, Available: st.Quantity}
	}

	_, err = uow.OrderItems().Add(ctx, uow.Querier(), AddOrderItemParams{
		OrderID:     orderID,
		ItemID:      line.ItemID,
		ProductName: line.ProductName,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
	})
	if err != nil {
		s.logger.Warn("add order item failed", slog.Int64("item_id", line.ItemID), slog.Any("error", err))
		return err
	}

	if err := uow.Stock().Decrement(ctx, uow.Querier(), line.ItemID, line.Quantity); err != nil {
		s.logger.Warn("decrement stock failed", slog.Int64("item_id", line.ItemID), slog.Any("error", err))
		return err
	}
	return nil
}

// Create inserts an order header without lines.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (PlacedOrder, error) {
	var orderID int64
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		orderID, err = uow.Orders().Create(ctx, uow.Querier(), req.CustomerName, time.Now().UTC(), req.CreatedBy)
		return err
	})
	if err != nil {
		s.logger.Warn("create order failed", slog.Any("error", err))
		return PlacedOrder{}, err
	}
	s.recordAudit(ctx, "order.create", orderID)
	return PlacedOrder{OrderID: orderID}, nil
}

// Update rewrites the order header's mutable fields.
func (s *Service) Update(ctx context.Context, req UpdateOrderRequest) error {
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		return uow.Orders().Update(ctx, uow.Querier(), req)
	})
	if err != nil {
		s.logger.Warn("update order failed", slog.Int64("order_id", req.ID), slog.Any("error", err))
		return err
	}
	s.recordAudit(ctx, "order.update", req.ID)
	return nil
}

// Delete soft-deletes the order header only.
func (s *Service) Delete(ctx context.Context, orderID int64) error {
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		return uow.Orders().Delete(ctx, uow.Querier(), orderID)
	})
	if err != nil {
		s.logger.Warn("delete order failed", slog.Int64("order_id", orderID), slog.Any("error", err))
		return err
	}
	s.recordAudit(ctx, "order.delete", orderID)
	return nil
}

// DeleteWithItems soft-deletes the order and all of its lines atomically, so
// neither a later get_order_with_items nor get_all_orders returns it.
func (s *Service) DeleteWithItems(ctx context.Context, orderID int64) error {
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		return uow.Orders().DeleteWithItems(ctx, uow.Querier(), orderID)
	})
	if err != nil {
		s.logger.Warn("delete order with items failed", slog.Int64("order_id", orderID), slog.Any("error", err))
		return err
	}
	s.recordAudit(ctx, "order.delete_with_items", orderID)
	return nil
}

// Get returns one order with its lines.
func (s *Service) Get(ctx context.Context, orderID int64) (*Order, error) {
	return s.repo.GetWithItems(ctx, s.pool, orderID)
}

// GetAll returns every order with its lines.
func (s *Service) GetAll(ctx context.Context) ([]Order, error) {
	return s.repo.GetAll(ctx, s.pool)
}

// AddItem appends a line to an existing order, checking and decrementing
// stock under the same row lock discipline as placement.
func (s *Service) AddItem(ctx context.Context, req AddOrderItemRequest) (int64, error) {
	var orderItemID int64
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		orderItemID, err = s.addItem(ctx, uow, req)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.recordAudit(ctx, "order_item.add", orderItemID)
	return orderItemID, nil
}

func (s *Service) addItem(ctx context.Context, uow UnitOfWork, req AddOrderItemRequest) (int64, error) {
	st, err := uow.Stock().ForUpdate(ctx, uow.Querier(), req.ItemID)
	if err != nil {
		s.logger.Warn("lock stock failed", slog.Int64("item_id", req.ItemID), slog.Any("error", err))
		return 0, err
	}
	if st.Quantity < req.Quantity {
		return 0, &shared.InsufficientStockError{ItemID: req.ItemID, Requested: req.Quantity, Available: st.Quantity}
	}

	orderItemID, err := uow.OrderItems().Add(ctx, uow.Querier(), AddOrderItemParams{
		OrderID:     req.OrderID,
		ItemID:      req.ItemID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		s.logger.Warn("add order item failed", slog.Int64("order_id", req.OrderID), slog.Any("error", err))
		return 0, err
	}

	if err := uow.Stock().Decrement(ctx, uow.Querier(), req.ItemID, req.Quantity); err != nil {
		s.logger.Warn("decrement stock failed", slog.Int64("item_id", req.ItemID), slog.Any("error", err))
		return 0, err
	}
	return orderItemID, nil
}

// UpdateItem rewrites an order line's mutable fields. Stock is not adjusted;
// quantity corrections against inventory go through the stock module.
func (s *Service) UpdateItem(ctx context.Context, req UpdateOrderItemRequest) error {
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		return uow.OrderItems().Update(ctx, uow.Querier(), req)
	})
	if err != nil {
		s.logger.Warn("update order item failed", slog.Int64("order_item_id", req.ID), slog.Any("error", err))
		return err
	}
	s.recordAudit(ctx, "order_item.update", req.ID)
	return nil
}

// DeleteItem soft-deletes one order line.
func (s *Service) DeleteItem(ctx context.Context, orderItemID int64) error {
	err := s.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		return uow.OrderItems().Delete(ctx, uow.Querier(), orderItemID)
	})
	if err != nil {
		s.logger.Warn("delete order item failed", slog.Int64("order_item_id", orderItemID), slog.Any("error", err))
		return err
	}
	s.recordAudit(ctx, "order_item.delete", orderItemID)
	return nil
}

func (s *Service) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" || s.idem == nil {
		return
	}
	if err := s.idem.Delete(ctx, key, idempotencyModule); err != nil {
		s.logger.Warn("release idempotency key failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Service) rejected(err error) {
	if s.metrics == nil {
		return
	}
	switch err.(type) {
	case *shared.InsufficientStockError:
		s.metrics.OrderRejected("insufficient_stock")
	default:
		s.metrics.OrderRejected("error")
	}
}

func (s *Service) recordAudit(ctx context.Context, action string, entityID int64) {
	if s.audit == nil {
		return
	}
	id := shared.IdentityFromContext(ctx)
	err := s.audit.Record(ctx, shared.AuditLog{
		Actor:    id.Username,
		Action:   action,
		Entity:   "order",
		EntityID: strconv.FormatInt(entityID, 10),
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
