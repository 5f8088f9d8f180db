package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
)

// OrdersPurgeJob hard-deletes soft-deleted orders and order lines once they
// are older than the retention window. Only rows flagged is_deleted are
// touched; is_active is an independent business attribute and a deactivated
// order is never purged. Each run deletes in one transaction so lines never
// outlive a purged order.
type OrdersPurgeJob struct {
	pool      *pgxpool.Pool
	logger    *slog.Logger
	retention time.Duration
}

// NewOrdersPurgeJob constructs the purge job.
func NewOrdersPurgeJob(pool *pgxpool.Pool, logger *slog.Logger, retention time.Duration) *OrdersPurgeJob {
	return &OrdersPurgeJob{pool: pool, logger: logger, retention: retention}
}

// Handle processes a TaskOrdersPurge task.
func (j *OrdersPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OrdersPurgePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	cutoff := time.Now().UTC().Add(-j.retention)
	var purgedOrders, purgedLines int64

	err := db.WithTx(ctx, j.pool, func(q db.Querier) error {
		var err error
		purgedOrders, purgedLines, err = j.purge(ctx, q, cutoff)
		return err
	})
	if err != nil {
		j.logger.Error("orders purge failed", slog.Any("error", err))
		return err
	}

	j.logger.Info("orders purge completed",
		slog.Int64("orders", purgedOrders),
		slog.Int64("order_items", purgedLines),
		slog.Time("cutoff", cutoff))
	return nil
}

// purge runs the three delete statements on the given handle: lines of purged
// orders first, then individually soft-deleted lines, then the order rows.
func (j *OrdersPurgeJob) purge(ctx context.Context, q db.Querier, cutoff time.Time) (orders, lines int64, err error) {
	tag, err := q.Exec(ctx, `
		DELETE FROM public.order_items
		WHERE order_id IN (
			SELECT order_id FROM public.orders
			WHERE is_deleted = TRUE AND COALESCE(updated_date, created_date) < $1
		)`, cutoff)
	if err != nil {
		return 0, 0, err
	}
	lines = tag.RowsAffected()

	tag, err = q.Exec(ctx, `
		DELETE FROM public.order_items
		WHERE is_deleted = TRUE AND COALESCE(updated_date, created_date) < $1`, cutoff)
	if err != nil {
		return 0, 0, err
	}
	lines += tag.RowsAffected()

	tag, err = q.Exec(ctx, `
		DELETE FROM public.orders
		WHERE is_deleted = TRUE AND COALESCE(updated_date, created_date) < $1`, cutoff)
	if err != nil {
		return 0, 0, err
	}
	orders = tag.RowsAffected()
	return orders, lines, nil
}
