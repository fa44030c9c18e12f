package service

import (
	"context"
	"errors"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// PurchaseStore executes the all-or-nothing purchase transaction and
// reads the audit trail back.
type PurchaseStore interface {
	ExecutePurchase(ctx context.Context, buyer string, productID int64, quantity int, orderDate string) (*models.PurchaseResult, error)
	GetPurchasesByUsername(ctx context.Context, username string) ([]models.Purchase, error)
}

// EventPublisher publishes audit events after a purchase commits.
type EventPublisher interface {
	PublishPurchaseCompleted(ctx context.Context, buyer string, productID int64, result *models.PurchaseResult) error
	PublishProductDepleted(ctx context.Context, productID int64, name string) error
	PublishOrdersSwept(ctx context.Context, date string, removed int64) error
}

// PurchaseService validates and executes purchase requests.
type PurchaseService struct {
	store     PurchaseStore
	orders    *OrderService
	catalog   *CatalogService
	publisher EventPublisher
	leadDays  int
	logger    *zap.Logger
	now       func() time.Time
}

// NewPurchaseService creates a new purchase service. publisher may be
// nil when no broker is configured.
func NewPurchaseService(store PurchaseStore, orders *OrderService, catalog *CatalogService, publisher EventPublisher, leadDays int) *PurchaseService {
	if leadDays <= 0 {
		leadDays = 3
	}
	return &PurchaseService{
		store:     store,
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		leadDays:  leadDays,
		logger:    util.GetLogger(),
		now:       time.Now,
	}
}

// Buy executes one purchase: decrement stock, append one purchase row
// per unit, drop the product when depleted, and spawn an order dated
// leadDays ahead when the buyer has a client profile. Rejections leave
// no trace; side effects after the commit are best-effort.
func (s *PurchaseService) Buy(ctx context.Context, buyer string, productID int64, quantity int) (*models.PurchaseResult, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseService.Buy")
	defer span.End()

	start := s.now()
	defer func() {
		util.PurchaseLatency.Observe(time.Since(start).Seconds())
	}()

	if quantity < 1 {
		util.PurchasesFailedTotal.WithLabelValues("invalid_quantity").Inc()
		return nil, models.ErrInvalidQuantity
	}

	today := s.now().Format(models.DateLayout)
	orderDate := s.now().AddDate(0, 0, s.leadDays).Format(models.DateLayout)

	result, err := s.store.ExecutePurchase(ctx, buyer, productID, quantity, orderDate)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrProductNotFound):
			util.PurchasesFailedTotal.WithLabelValues("product_not_found").Inc()
		case errors.Is(err, models.ErrInsufficientStock):
			util.PurchasesFailedTotal.WithLabelValues("insufficient_stock").Inc()
		default:
			util.PurchasesFailedTotal.WithLabelValues("storage_error").Inc()
			s.logger.Error("Purchase transaction failed",
				zap.String("buyer", buyer),
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
		return nil, err
	}

	util.PurchasesTotal.Inc()
	util.UnitsSoldTotal.Add(float64(result.UnitsBought))
	s.logger.Info("Purchase completed",
		zap.String("buyer", buyer),
		zap.Int64("product_id", productID),
		zap.Int("units", result.UnitsBought),
		zap.Int("remaining", result.Remaining))

	if result.OrderCreated {
		util.OrdersCreatedTotal.Inc()
	} else {
		// Stock is gone and purchase rows are written, but a buyer
		// without a client profile gets no order.
		util.OrdersSkippedTotal.Inc()
		s.logger.Warn("No client profile for buyer, order skipped",
			zap.String("buyer", buyer),
			zap.Int64("product_id", productID))
	}

	if result.Depleted {
		util.ProductsDepletedTotal.Inc()
		s.logger.Info("Product depleted and removed",
			zap.Int64("product_id", productID),
			zap.String("name", result.ProductName))
	}

	// Post-commit side effects. None of these can undo the purchase.
	if _, err := s.orders.SweepExpired(ctx, today); err != nil {
		s.logger.Warn("Post-purchase sweep failed", zap.Error(err))
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPurchaseCompleted(ctx, buyer, productID, result); err != nil {
			s.logger.Warn("Failed to publish PurchaseCompleted event", zap.Error(err))
		}
		if result.Depleted {
			if err := s.publisher.PublishProductDepleted(ctx, productID, result.ProductName); err != nil {
				s.logger.Warn("Failed to publish ProductDepleted event", zap.Error(err))
			}
		}
	}

	if s.catalog != nil {
		s.catalog.RefreshCache(ctx)
	}

	return result, nil
}

// History returns the buyer's own slice of the append-only audit
// trail, one entry per unit ever bought.
func (s *PurchaseService) History(ctx context.Context, buyer string) ([]models.Purchase, error) {
	return s.store.GetPurchasesByUsername(ctx, buyer)
}
