package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LowStockScanJob walks the active catalog flagging products whose stock
// dropped below the threshold, so operators can restock before listings
// start failing with stock errors.
type LowStockScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewLowStockScanJob initialises the low-stock scan handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{Pool: pool, Logger: logger}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Threshold <= 0 {
		payload.Threshold = 5
	}

	logger := j.logger().With(slog.Int("threshold", payload.Threshold))
	logger.Info("starting low stock scan")

	rows, err := j.Pool.Query(ctx, `
		SELECT id, name, sku, stock
		FROM products
		WHERE is_active = TRUE AND stock < $1
		ORDER BY stock ASC`, payload.Threshold)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}
	defer rows.Close()

	flagged := 0
	for rows.Next() {
		var (
			id    int64
			name  string
			sku   *string
			stock int
		)
		if err := rows.Scan(&id, &name, &sku, &stock); err != nil {
			return err
		}
		attrs := []any{
			slog.Int64("product_id", id),
			slog.String("name", name),
			slog.Int("stock", stock),
		}
		if sku != nil {
			attrs = append(attrs, slog.String("sku", *sku))
		}
		logger.Warn("product low on stock", attrs...)
		flagged++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	logger.Info("low stock scan finished", slog.Int("flagged", flagged))
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
