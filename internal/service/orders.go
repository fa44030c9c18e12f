package service

import (
	"context"
	"fmt"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// OrderStore is the persistence surface the order service needs.
type OrderStore interface {
	GetOrders(ctx context.Context) ([]models.OrderWithClient, error)
	CreateOrder(ctx context.Context, clientID int64, date string) (int64, error)
	DeleteOrder(ctx context.Context, id int64) error
	DeleteExpiredOrders(ctx context.Context, today string) (int64, error)
}

// OrderService manages the order ledger and the expiry sweep.
type OrderService struct {
	store     OrderStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. publisher may be nil
// when no broker is configured.
func NewOrderService(store OrderStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ListOrders returns all orders with client names attached.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.OrderWithClient, error) {
	return s.store.GetOrders(ctx)
}

// AddOrder records an administrative order entry.
func (s *OrderService) AddOrder(ctx context.Context, clientID int64, date string) (int64, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return 0, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
	}
	return s.store.CreateOrder(ctx, clientID, date)
}

// RemoveOrder deletes an order; removing an absent id is a no-op.
func (s *OrderService) RemoveOrder(ctx context.Context, id int64) error {
	return s.store.DeleteOrder(ctx, id)
}

// SweepExpired removes every order whose target date is on or before
// today. An order maturing today is already gone. Repeated sweeps with
// the same date converge to zero further deletions.
func (s *OrderService) SweepExpired(ctx context.Context, today string) (int64, error) {
	if _, err := time.Parse(models.DateLayout, today); err != nil {
		return 0, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
	}

	removed, err := s.store.DeleteExpiredOrders(ctx, today)
	if err != nil {
		return 0, err
	}

	util.SweepsTotal.Inc()
	if removed > 0 {
		util.OrdersExpiredTotal.Add(float64(removed))
		s.logger.Info("Expired orders swept",
			zap.String("today", today),
			zap.Int64("removed", removed))

		if s.publisher != nil {
			if err := s.publisher.PublishOrdersSwept(ctx, today, removed); err != nil {
				s.logger.Warn("Failed to publish OrdersSwept event", zap.Error(err))
			}
		}
	}
	return removed, nil
}
