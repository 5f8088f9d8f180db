package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockIntegrityJob scans for stock rows that violate the domain invariants:
// negative quantities and items without exactly one stock row. Violations are
// logged; the job itself succeeds so the scheduler keeps running it.
type StockIntegrityJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStockIntegrityJob constructs the integrity job.
func NewStockIntegrityJob(pool *pgxpool.Pool, logger *slog.Logger) *StockIntegrityJob {
	return &StockIntegrityJob{pool: pool, logger: logger}
}

// Handle processes a TaskStockIntegrity task.
func (j *StockIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	violations := 0

	rows, err := j.pool.Query(ctx, `SELECT item_id, quantity FROM inventory.stock WHERE quantity < 0`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var itemID, quantity int64
		if err := rows.Scan(&itemID, &quantity); err != nil {
			rows.Close()
			return err
		}
		violations++
		j.logger.Error("negative stock quantity",
			slog.Int64("item_id", itemID),
			slog.Int64("quantity", quantity))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = j.pool.Query(ctx, `
		SELECT i.item_id, COUNT(s.stock_id)
		FROM inventory.items i
		LEFT JOIN inventory.stock s ON s.item_id = i.item_id
		WHERE i.is_deleted = FALSE
		GROUP BY i.item_id
		HAVING COUNT(s.stock_id) <> 1`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var itemID, stockRows int64
		if err := rows.Scan(&itemID, &stockRows); err != nil {
			rows.Close()
			return err
		}
		violations++
		j.logger.Error("item without exactly one stock row",
			slog.Int64("item_id", itemID),
			slog.Int64("stock_rows", stockRows))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	j.logger.Info("stock integrity scan completed", slog.Int("violations", violations))
	return nil
}
