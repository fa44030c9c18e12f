package worker

import (
	"context"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/models"
	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// SweepWorker periodically purges expired orders so the ledger stays
// clean even when no purchases are flowing.
type SweepWorker struct {
	orders   *service.OrderService
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSweepWorker creates a new sweep worker
func NewSweepWorker(orders *service.OrderService, interval time.Duration) *SweepWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweepWorker{
		orders:   orders,
		interval: interval,
		logger:   util.GetLogger(),
		now:      time.Now,
	}
}

// Start runs the sweep loop until the context is cancelled
func (w *SweepWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting sweep worker", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Sweep worker context cancelled, stopping")
			return ctx.Err()
		case <-ticker.C:
			today := w.now().Format(models.DateLayout)
			if _, err := w.orders.SweepExpired(ctx, today); err != nil {
				w.logger.Warn("Periodic sweep failed", zap.Error(err))
			}
		}
	}
}

// CacheWorker consumes purchase events and re-pushes the catalog view
// into the cache, keeping replicas' read views warm.
type CacheWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewCacheWorker creates a new cache worker
func NewCacheWorker(consumer *broker.Consumer, catalog *service.CatalogService) *CacheWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnPurchaseCompleted(func(ctx context.Context, event *models.PurchaseCompletedEvent) error {
		catalog.RefreshCache(ctx)
		return nil
	})
	eventHandler.OnProductDepleted(func(ctx context.Context, event *models.ProductDepletedEvent) error {
		catalog.RefreshCache(ctx)
		return nil
	})

	return &CacheWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start starts the worker
func (w *CacheWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting cache worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CacheWorker) Stop() error {
	w.logger.Info("Stopping cache worker")
	return w.consumer.Close()
}
